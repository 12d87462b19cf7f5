package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Finite is the fraction of observed frames whose state holds no NaN or Inf.
type Finite struct {
	name       string
	violations int
	samples    int
}

func NewFinite() *Finite {
	return &Finite{name: "finite"}
}

func (f *Finite) Name() string {
	return f.name
}

func (f *Finite) Observe(s *sim.System) {
	f.samples++
	if !s.Snapshot().IsValid() {
		f.violations++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *Finite) Reset() {
	f.violations = 0
	f.samples = 0
}
