package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/sim"
)

type ExportData struct {
	Run       RunMetadata `json:"run"`
	Frames    int         `json:"frames"`
	Times     []float64   `json:"times"`
	Energies  []float64   `json:"energies"`
	Positions [][]float64 `json:"positions"`
}

// ExportJSON writes a stored run as one JSON document. path "-" means stdout.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	if path == "-" {
		return WriteJSON(os.Stdout, meta, frames)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func WriteJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:       *meta,
		Frames:    len(frames),
		Times:     make([]float64, len(frames)),
		Energies:  make([]float64, len(frames)),
		Positions: make([][]float64, len(frames)),
	}

	for i, f := range frames {
		data.Times[i] = f.Time
		data.Energies[i] = f.Energy
		data.Positions[i] = f.Positions
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
