package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

// Euler is the semi-implicit (symplectic) Euler method: velocities are
// kicked with accelerations from the current positions, then positions are
// drifted with the updated velocities.
type Euler struct {
	acc []float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.Field, p *dynamo.Phase, dt float64) {
	n := len(p.Pos)
	if len(e.acc) != n {
		e.acc = make([]float64, n)
	}

	f.Accelerations(p.Pos, e.acc)

	for k := 0; k < n; k++ {
		p.Vel[k] += e.acc[k] * dt
		p.Pos[k] += p.Vel[k] * dt
	}
}
