package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/projsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples sim.Trajectory `json:"samples"`
}

// WriteCSV writes a time,x,y header followed by one row per sample.
func WriteCSV(w io.Writer, tr sim.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "x", "y"}); err != nil {
		return err
	}
	for _, smp := range tr {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', -1, 64),
			strconv.FormatFloat(smp.Pos.X, 'f', -1, 64),
			strconv.FormatFloat(smp.Pos.Y, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, meta RunMetadata, tr sim.Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Samples: tr})
}
