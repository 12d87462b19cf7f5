package physics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	// G is the gravitational constant in N·m²/kg².
	G = 6.6743e-11

	// NearThreshold is the default separation in meters below which a pair
	// exerts no force on each other.
	NearThreshold = 1e-3

	// minChunk is the smallest particle range worth handing to a goroutine.
	minChunk = 16
)

// Gravity evaluates direct-summation Newtonian accelerations for a fixed set
// of masses in a fixed dimension. It implements dynamo.Field.
type Gravity struct {
	dim       int
	masses    []float64
	threshold float64
	workers   int
}

type Option func(*Gravity)

// WithThreshold sets the separation below which a pair contributes nothing.
func WithThreshold(d float64) Option {
	return func(g *Gravity) { g.threshold = d }
}

// WithWorkers sets the number of goroutines used per evaluation. Zero or
// less means GOMAXPROCS; one forces serial evaluation.
func WithWorkers(n int) Option {
	return func(g *Gravity) { g.workers = n }
}

func NewGravity(dim int, masses []float64, opts ...Option) *Gravity {
	m := make([]float64, len(masses))
	copy(m, masses)
	g := &Gravity{
		dim:       dim,
		masses:    m,
		threshold: NearThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gravity) Dim() int           { return g.dim }
func (g *Gravity) Len() int           { return len(g.masses) }
func (g *Gravity) Threshold() float64 { return g.threshold }
func (g *Gravity) Mass(i int) float64 { return g.masses[i] }

// Accelerations writes a_i = Σ_{j≠i} G·m_j·(x_j − x_i)/|x_j − x_i|³ for every
// particle into dst. Each worker owns a disjoint range of dst and only reads pos.
func (g *Gravity) Accelerations(pos []float64, dst []float64) {
	d := g.dim
	dynamo.ParallelFor(len(g.masses), minChunk, g.workers, func(start, end int) {
		for i := start; i < end; i++ {
			g.accelerate(pos, i, dst[i*d:(i+1)*d])
		}
	})
}

// Acceleration returns the acceleration of particle i alone.
func (g *Gravity) Acceleration(pos []float64, i int) dynamo.Vec {
	a := dynamo.NewVec(g.dim)
	g.accelerate(pos, i, a)
	return a
}

func (g *Gravity) accelerate(pos []float64, i int, out []float64) {
	d := g.dim
	for k := range out {
		out[k] = 0
	}

	xi := pos[i*d : (i+1)*d]
	for j, mj := range g.masses {
		if j == i {
			continue
		}
		xj := pos[j*d : (j+1)*d]

		r2 := 0.0
		for k := 0; k < d; k++ {
			dx := xj[k] - xi[k]
			r2 += dx * dx
		}
		r := math.Sqrt(r2)
		if r < g.threshold {
			continue
		}

		f := G * mj / (r2 * r)
		for k := 0; k < d; k++ {
			out[k] += f * (xj[k] - xi[k])
		}
	}
}

// separation returns |x_i − x_j|.
func (g *Gravity) separation(pos []float64, i, j int) float64 {
	d := g.dim
	r2 := 0.0
	for k := 0; k < d; k++ {
		dx := pos[j*d+k] - pos[i*d+k]
		r2 += dx * dx
	}
	return math.Sqrt(r2)
}
