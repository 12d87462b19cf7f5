package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

// System is the state of N gravitating particles in D dimensions. It owns
// its particles exclusively; accessors return copies. A System is not safe
// for concurrent use: readers must not overlap with Advance.
type System struct {
	phase      *dynamo.Phase
	gravity    *physics.Gravity
	integrator dynamo.Integrator
	t          float64
	steps      int

	// Scale is the display factor in pixels per meter. Physics never reads it.
	Scale float64
}

type options struct {
	dim        int
	integrator dynamo.Integrator
	gravity    []physics.Option
	scale      float64
}

type Option func(*options)

// WithIntegrator selects the step function. The default is RK4.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(o *options) { o.integrator = integ }
}

// WithDim fixes the dimension instead of taking it from the first particle.
// It is required to build an empty system of a given dimension.
func WithDim(dim int) Option {
	return func(o *options) { o.dim = dim }
}

func WithWorkers(n int) Option {
	return func(o *options) { o.gravity = append(o.gravity, physics.WithWorkers(n)) }
}

func WithThreshold(d float64) Option {
	return func(o *options) { o.gravity = append(o.gravity, physics.WithThreshold(d)) }
}

func WithScale(scale float64) Option {
	return func(o *options) { o.scale = scale }
}

// New builds a System from an ordered particle list. Every particle must
// share one dimension and have a positive finite mass; otherwise New returns
// a *dynamo.ConfigError and no System.
func New(particles []Particle, opts ...Option) (*System, error) {
	o := options{dim: -1, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}

	dim := o.dim
	if dim < 0 {
		dim = 0
		if len(particles) > 0 {
			dim = len(particles[0].Position)
		}
	}
	if dim == 0 && len(particles) > 0 {
		return nil, &dynamo.ConfigError{Index: 0, Detail: "position has no components", Wrapped: dynamo.ErrDimensionMismatch}
	}

	phase := dynamo.NewPhase(len(particles), dim)
	masses := make([]float64, len(particles))

	for i, p := range particles {
		if len(p.Position) != len(p.Velocity) {
			return nil, &dynamo.ConfigError{
				Index:   i,
				Detail:  fmt.Sprintf("position has %d components, velocity has %d", len(p.Position), len(p.Velocity)),
				Wrapped: dynamo.ErrDimensionMismatch,
			}
		}
		if len(p.Position) != dim {
			return nil, &dynamo.ConfigError{
				Index:   i,
				Detail:  fmt.Sprintf("has %d dimensions, system has %d", len(p.Position), dim),
				Wrapped: dynamo.ErrDimensionMismatch,
			}
		}
		if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
			return nil, &dynamo.ConfigError{Index: i, Detail: fmt.Sprintf("mass %g", p.Mass), Wrapped: dynamo.ErrParameterBounds}
		}
		if !p.Position.IsValid() || !p.Velocity.IsValid() {
			return nil, &dynamo.ConfigError{Index: i, Detail: "non-finite initial conditions", Wrapped: dynamo.ErrInvalidState}
		}

		copy(phase.Pos[i*dim:], p.Position)
		copy(phase.Vel[i*dim:], p.Velocity)
		masses[i] = p.Mass
	}

	integ := o.integrator
	if integ == nil {
		integ = integrators.NewRK4()
	}

	return &System{
		phase:      phase,
		gravity:    physics.NewGravity(dim, masses, o.gravity...),
		integrator: integ,
		Scale:      o.scale,
	}, nil
}

// Advance moves every particle forward by dt with the selected integrator.
// Negative dt integrates backwards.
func (s *System) Advance(dt float64) {
	s.integrator.Step(s.gravity, s.phase, dt)
	s.t += dt
	s.steps++
}

func (s *System) Len() int                  { return s.phase.Len() }
func (s *System) Dim() int                  { return s.phase.Dim }
func (s *System) Time() float64             { return s.t }
func (s *System) Steps() int                { return s.steps }
func (s *System) IntegratorName() string    { return s.integrator.Name() }
func (s *System) Mass(i int) float64        { return s.gravity.Mass(i) }
func (s *System) Position(i int) dynamo.Vec { return s.phase.Position(i) }
func (s *System) Velocity(i int) dynamo.Vec { return s.phase.Velocity(i) }

func (s *System) Particle(i int) Particle {
	return Particle{Position: s.Position(i), Velocity: s.Velocity(i), Mass: s.Mass(i)}
}

func (s *System) Particles() []Particle {
	ps := make([]Particle, s.Len())
	for i := range ps {
		ps[i] = s.Particle(i)
	}
	return ps
}

// Snapshot returns a copy of the columnar state.
func (s *System) Snapshot() *dynamo.Phase {
	return s.phase.Clone()
}

// Accelerations evaluates the force field at the current positions.
func (s *System) Accelerations() []dynamo.Vec {
	d := s.Dim()
	flat := make([]float64, len(s.phase.Pos))
	s.gravity.Accelerations(s.phase.Pos, flat)

	acc := make([]dynamo.Vec, s.Len())
	for i := range acc {
		acc[i] = dynamo.Vec(flat[i*d : (i+1)*d : (i+1)*d])
	}
	return acc
}

func (s *System) Acceleration(i int) dynamo.Vec {
	return s.gravity.Acceleration(s.phase.Pos, i)
}

func (s *System) TotalEnergy() float64 {
	return s.gravity.Energy(s.phase.Pos, s.phase.Vel)
}

func (s *System) Momentum() dynamo.Vec {
	return s.gravity.Momentum(s.phase.Vel)
}

func (s *System) CenterOfMass() dynamo.Vec {
	return s.gravity.CenterOfMass(s.phase.Pos)
}

func (s *System) frame() Frame {
	snap := s.phase.Clone()
	return Frame{
		Step:       s.steps,
		Time:       s.t,
		Energy:     s.TotalEnergy(),
		Positions:  snap.Pos,
		Velocities: snap.Vel,
	}
}
