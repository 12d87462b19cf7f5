package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// KilometersToMeters converts file units to SI.
const KilometersToMeters = 1000.0

// Record is one body in an initial-conditions file. Position is in km and
// velocity in km/s.
type Record struct {
	Position []float64 `yaml:"position"`
	Velocity []float64 `yaml:"velocity"`
	Mass     float64   `yaml:"mass"`
}

// File is the on-disk layout. Dim is optional; when set, every record must
// match it.
type File struct {
	Dim    int      `yaml:"dim,omitempty"`
	Bodies []Record `yaml:"bodies"`
}

// Decode reads a YAML (or JSON) initial-conditions document.
func Decode(r io.Reader) ([]sim.Particle, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode bodies: %w", err)
	}
	return f.Particles()
}

func Load(path string) ([]sim.Particle, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	ps, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Particles converts the records to SI units. Mass and dimensional
// consistency across records is left to sim.New; only the declared Dim is
// checked here.
func (f *File) Particles() ([]sim.Particle, error) {
	ps := make([]sim.Particle, len(f.Bodies))
	for i, rec := range f.Bodies {
		if f.Dim > 0 && (len(rec.Position) != f.Dim || len(rec.Velocity) != f.Dim) {
			return nil, &dynamo.ConfigError{
				Index:   i,
				Detail:  fmt.Sprintf("file declares dim %d, record has %d/%d", f.Dim, len(rec.Position), len(rec.Velocity)),
				Wrapped: dynamo.ErrDimensionMismatch,
			}
		}
		ps[i] = sim.Particle{
			Position: dynamo.Vec(rec.Position).Scale(KilometersToMeters),
			Velocity: dynamo.Vec(rec.Velocity).Scale(KilometersToMeters),
			Mass:     rec.Mass,
		}
	}
	return ps, nil
}
