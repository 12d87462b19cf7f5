package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// Energy returns the total mechanical energy: kinetic plus pairwise potential.
func (g *Gravity) Energy(pos, vel []float64) float64 {
	return g.Kinetic(vel) + g.Potential(pos)
}

// Kinetic returns Σ ½·m_i·|v_i|².
func (g *Gravity) Kinetic(vel []float64) float64 {
	d := g.dim
	ke := 0.0
	for i, m := range g.masses {
		v2 := 0.0
		for k := 0; k < d; k++ {
			v := vel[i*d+k]
			v2 += v * v
		}
		ke += 0.5 * m * v2
	}
	return ke
}

// Potential returns −Σ_{i<j} G·m_i·m_j/|x_i − x_j|. Pairs closer than the
// threshold are skipped, matching the force guard.
func (g *Gravity) Potential(pos []float64) float64 {
	n := len(g.masses)
	pe := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := g.separation(pos, i, j)
			if r < g.threshold {
				continue
			}
			pe -= G * g.masses[i] * g.masses[j] / r
		}
	}
	return pe
}

// Momentum returns Σ m_i·v_i.
func (g *Gravity) Momentum(vel []float64) dynamo.Vec {
	d := g.dim
	p := dynamo.NewVec(d)
	for i, m := range g.masses {
		for k := 0; k < d; k++ {
			p[k] += m * vel[i*d+k]
		}
	}
	return p
}

// CenterOfMass returns Σ m_i·x_i / Σ m_i, or the zero vector for an empty system.
func (g *Gravity) CenterOfMass(pos []float64) dynamo.Vec {
	d := g.dim
	c := dynamo.NewVec(d)
	total := 0.0
	for i, m := range g.masses {
		total += m
		for k := 0; k < d; k++ {
			c[k] += m * pos[i*d+k]
		}
	}
	if total == 0 {
		return c
	}
	return c.Scale(1 / total)
}
