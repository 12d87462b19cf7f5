package sim

import (
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Particle is one body's initial conditions in SI units.
type Particle struct {
	Position dynamo.Vec
	Velocity dynamo.Vec
	Mass     float64
}

// Frame is a recorded copy of the system between steps.
type Frame struct {
	Step       int
	Time       float64
	Energy     float64
	Positions  []float64
	Velocities []float64
}

type Metric interface {
	Name() string
	Observe(s *System)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Dt            float64
	Steps         int
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.001,
		Steps:         1000,
		RecordEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Dim           int
	Frames        []Frame
	Metrics       map[string]float64
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	StepsTaken    int
	Elapsed       time.Duration
	Errors        []error
}

// Drift is the relative energy change (e0 − e1)/e0, or zero when e0 is zero.
func Drift(e0, e1 float64) float64 {
	if e0 == 0 {
		return 0
	}
	return (e0 - e1) / e0
}
