package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

var (
	rk4Nodes   = [4]float64{0, 0.5, 0.5, 1}
	rk4Weights = [4]float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0}
)

// RK4 is the classical fourth-order Runge-Kutta method over the combined
// (position, velocity) state, with dx/dt = v and dv/dt = a(x).
type RK4 struct {
	kx, kv [4][]float64
	xs, vs []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.xs) != n {
		for s := range r.kx {
			r.kx[s] = make([]float64, n)
			r.kv[s] = make([]float64, n)
		}
		r.xs = make([]float64, n)
		r.vs = make([]float64, n)
	}
}

// Step evaluates all four stages for the whole system before combining them;
// every stage needs every particle's stage position.
func (r *RK4) Step(f dynamo.Field, p *dynamo.Phase, dt float64) {
	n := len(p.Pos)
	r.ensureScratch(n)

	for s := 0; s < 4; s++ {
		if s == 0 {
			copy(r.xs, p.Pos)
			copy(r.vs, p.Vel)
		} else {
			h := rk4Nodes[s] * dt
			for k := 0; k < n; k++ {
				r.xs[k] = p.Pos[k] + h*r.kx[s-1][k]
				r.vs[k] = p.Vel[k] + h*r.kv[s-1][k]
			}
		}
		copy(r.kx[s], r.vs)
		f.Accelerations(r.xs, r.kv[s])
	}

	for k := 0; k < n; k++ {
		dx, dv := 0.0, 0.0
		for s := 0; s < 4; s++ {
			dx += rk4Weights[s] * r.kx[s][k]
			dv += rk4Weights[s] * r.kv[s][k]
		}
		p.Pos[k] += dt * dx
		p.Vel[k] += dt * dv
	}
}
