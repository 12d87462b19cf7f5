package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Timestamp     time.Time          `json:"timestamp"`
	Integrator    string             `json:"integrator"`
	Bodies        int                `json:"bodies"`
	Dim           int                `json:"dim"`
	Dt            float64            `json:"dt"`
	Steps         int                `json:"steps"`
	RecordEvery   int                `json:"record_every"`
	Threshold     float64            `json:"threshold"`
	Masses        []float64          `json:"masses"`
	InitialEnergy float64            `json:"initial_energy"`
	FinalEnergy   float64            `json:"final_energy"`
	EnergyDrift   float64            `json:"energy_drift"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Duration is the simulated time span.
func (m *RunMetadata) Duration() float64 {
	return m.Dt * float64(m.Steps)
}

// Save writes a run directory holding metadata.json and states.csv. The
// caller fills the descriptive fields of meta; ID, timestamp, shape and
// energies are taken from the run.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Dim = result.Dim
	if meta.Dim > 0 && len(result.Frames) > 0 {
		meta.Bodies = len(result.Frames[0].Positions) / meta.Dim
	}
	meta.InitialEnergy = result.InitialEnergy
	meta.FinalEnergy = result.FinalEnergy
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, "states.csv"), meta, result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, meta RunMetadata, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "energy"}
	for i := 0; i < meta.Bodies; i++ {
		for k := 0; k < meta.Dim; k++ {
			header = append(header, Column(i, k))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(fr.Time), formatFloat(fr.Energy))
		for _, x := range fr.Positions {
			row = append(row, formatFloat(x))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

var axes = [...]string{"x", "y", "z"}

// Column names the states.csv column for body i along axis k.
func Column(i, k int) string {
	if k < len(axes) {
		return fmt.Sprintf("p%d_%s", i, axes[k])
	}
	return fmt.Sprintf("p%d_%d", i, k)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first.
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", metaPath, err)
	}

	return &meta, nil
}

// LoadFrames reads the recorded positions back. Velocities are not stored,
// so the returned frames carry positions, time and energy only.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", csvPath, err)
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	width := 2 + meta.Bodies*meta.Dim
	frames := make([]sim.Frame, 0, len(records)-1)
	for row, record := range records[1:] {
		if len(record) != width {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d", csvPath, row+1, len(record), width)
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", csvPath, row+1, err)
			}
			vals[j] = v
		}

		step := 0
		if meta.Dt != 0 {
			step = int(math.Round(vals[0] / meta.Dt))
		}
		frames = append(frames, sim.Frame{
			Step:      step,
			Time:      vals[0],
			Energy:    vals[1],
			Positions: vals[2:],
		})
	}

	return frames, nil
}
