package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/projsim/internal/ballistics"
	"github.com/san-kum/projsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string           `json:"id"`
	Scenario   string           `json:"scenario"`
	Timestamp  time.Time        `json:"timestamp"`
	State      ballistics.State `json:"state"`
	Dt         float64          `json:"dt"`
	FlightTime float64          `json:"flight_time"`
	Landing    ballistics.Vec2  `json:"landing"`
	Samples    int              `json:"samples"`
	MaxRange   float64          `json:"max_range,omitempty"`
}

// Save writes metadata.json and trajectory.csv under a new run directory and
// returns the run id.
func (s *Store) Save(scenario string, st ballistics.State, dt float64, result *sim.Result, maxRange float64) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", scenario, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  ts,
		State:      st,
		Dt:         dt,
		FlightTime: result.FlightTime,
		Landing:    result.Landing.Pos,
		Samples:    len(result.Samples),
		MaxRange:   maxRange,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (sim.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return sim.Trajectory{}, nil
	}

	tr := make(sim.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		vals := [3]float64{}
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", trajectoryFile, i+2, err)
			}
			vals[j] = v
		}
		tr = append(tr, sim.Sample{Time: vals[0], Pos: ballistics.Vec2{X: vals[1], Y: vals[2]}})
	}

	return tr, nil
}

// Path returns the directory holding a run.
func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
