package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// EnergyDrift reports the largest relative energy change seen since the
// first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *sim.System) {
	energy := s.TotalEnergy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if d := math.Abs(sim.Drift(e.initialEnergy, energy)); d > e.maxDrift {
		e.maxDrift = d
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift reports the largest |P(t) − P(0)|, relative to Σ m|v| at
// the first observation. A system that starts at rest reports the absolute
// change instead.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec
	scale    float64
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s *sim.System) {
	p := s.Momentum()
	if m.initial == nil {
		m.initial = p
		m.scale = 0
		for i := 0; i < s.Len(); i++ {
			m.scale += s.Mass(i) * s.Velocity(i).Norm()
		}
		return
	}

	d := p.Sub(m.initial).Norm()
	if m.scale > 0 {
		d /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, d)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = nil
	m.scale = 0
	m.maxDrift = 0
}
