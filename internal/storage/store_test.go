package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

func testResult() *sim.Result {
	samples := sim.Trajectory{
		{Time: 0, Pos: ballistics.Vec2{X: 0, Y: 4}},
		{Time: 0.5, Pos: ballistics.Vec2{X: 10.6, Y: 13.4}},
		{Time: 1, Pos: ballistics.Vec2{X: 21.2, Y: 20.3}},
	}
	return &sim.Result{
		FlightTime: 1,
		Landing:    samples[2],
		Samples:    samples,
		Steps:      3,
	}
}

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	state := ballistics.State{Start: ballistics.Vec2{Y: 4}, Target: ballistics.Vec2{X: 90}, Speed: 30, Direction: 0.78}
	runID, err := st.Save("field", state, 0.5, testResult(), 95.7)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "field_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "field" {
		t.Errorf("expected scenario 'field', got '%s'", meta.Scenario)
	}
	if !meta.State.Equal(state) {
		t.Errorf("state mismatch: %+v", meta.State)
	}
	if meta.MaxRange != 95.7 {
		t.Errorf("expected max range 95.7, got %f", meta.MaxRange)
	}
	if meta.Samples != 3 || meta.Landing.X != 21.2 {
		t.Errorf("unexpected landing summary: %+v", meta)
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	want := testResult().Samples
	if len(tr) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(tr))
	}
	for i := range want {
		if tr[i] != want[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, tr[i], want[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	st.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, name := range []string{"cliff", "flat"} {
		if _, err := st.Save(name, ballistics.State{}, 0.01, testResult(), 0); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	if err := os.Mkdir(filepath.Join(tmpDir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scenario != "cliff" || runs[1].Scenario != "flat" {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].Scenario, runs[1].Scenario)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("cliff", ballistics.State{}, 0.01, testResult(), 0)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(st.Path(runID), name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(st.Path(runID), trajectoryFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "time,x,y\n0,0,4\n") {
		t.Errorf("unexpected csv contents:\n%s", data)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "cliff_1", Scenario: "cliff"}

	if err := WriteJSON(&buf, meta, testResult().Samples); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "cliff_1" || len(got.Samples) != 3 {
		t.Errorf("unexpected export: %+v", got)
	}
}

func TestLoadTrajectoryMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.LoadTrajectory("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
