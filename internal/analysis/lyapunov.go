package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
)

type DivergenceResult struct {
	Times       []float64
	Separations []float64
	// Exponent is the finite-time estimate ln(d(T)/d0)/T.
	Exponent float64
}

// Divergence runs ps alongside a copy whose first body is displaced by
// perturbation metres along the first axis, and records how far the two
// configurations drift apart. A positive exponent signals sensitive
// dependence on initial conditions.
func Divergence(ps []sim.Particle, integrator string, perturbation, dt float64, steps int, opts ...sim.Option) (*DivergenceResult, error) {
	if len(ps) == 0 || len(ps[0].Position) == 0 {
		return nil, fmt.Errorf("need at least one body with a position")
	}
	if !(perturbation > 0) {
		return nil, fmt.Errorf("perturbation %g: %w", perturbation, dynamo.ErrParameterBounds)
	}

	shifted := make([]sim.Particle, len(ps))
	copy(shifted, ps)
	shifted[0].Position = ps[0].Position.Clone()
	shifted[0].Position[0] += perturbation

	ref, err := newSystem(ps, integrator, opts...)
	if err != nil {
		return nil, err
	}
	pert, err := newSystem(shifted, integrator, opts...)
	if err != nil {
		return nil, err
	}

	res := &DivergenceResult{
		Times:       make([]float64, 0, steps),
		Separations: make([]float64, 0, steps),
	}
	d0 := separation(ref, pert)

	for i := 0; i < steps; i++ {
		ref.Advance(dt)
		pert.Advance(dt)
		res.Times = append(res.Times, ref.Time())
		res.Separations = append(res.Separations, separation(ref, pert))
	}

	if steps > 0 && d0 > 0 {
		last := res.Separations[steps-1]
		if last > 0 {
			res.Exponent = math.Log(last/d0) / ref.Time()
		}
	}
	return res, nil
}

func newSystem(ps []sim.Particle, integrator string, opts ...sim.Option) (*sim.System, error) {
	integ, err := integrators.New(integrator)
	if err != nil {
		return nil, err
	}
	return sim.New(ps, append([]sim.Option{sim.WithIntegrator(integ)}, opts...)...)
}

func separation(a, b *sim.System) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		d := a.Position(i).Sub(b.Position(i))
		sum += d.Dot(d)
	}
	return math.Sqrt(sum)
}
