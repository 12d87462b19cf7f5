package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

// Verlet is velocity Verlet in kick-drift-kick form. It is second order,
// symplectic and time-reversible.
type Verlet struct {
	acc []float64
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(f dynamo.Field, p *dynamo.Phase, dt float64) {
	n := len(p.Pos)
	if len(v.acc) != n {
		v.acc = make([]float64, n)
	}

	halfDt := 0.5 * dt

	f.Accelerations(p.Pos, v.acc)
	for k := 0; k < n; k++ {
		p.Vel[k] += v.acc[k] * halfDt
		p.Pos[k] += p.Vel[k] * dt
	}

	f.Accelerations(p.Pos, v.acc)
	for k := 0; k < n; k++ {
		p.Vel[k] += v.acc[k] * halfDt
	}
}
