package dynamo

// Phase is the columnar phase-space state of N particles in Dim dimensions.
// Pos and Vel are row-major by particle: component k of particle i lives at
// index i*Dim+k.
type Phase struct {
	Dim int
	Pos []float64
	Vel []float64
}

func NewPhase(n, dim int) *Phase {
	return &Phase{
		Dim: dim,
		Pos: make([]float64, n*dim),
		Vel: make([]float64, n*dim),
	}
}

// Len returns the number of particles.
func (p *Phase) Len() int {
	if p.Dim == 0 {
		return 0
	}
	return len(p.Pos) / p.Dim
}

func (p *Phase) Position(i int) Vec {
	return Vec(p.Pos[i*p.Dim : (i+1)*p.Dim]).Clone()
}

func (p *Phase) Velocity(i int) Vec {
	return Vec(p.Vel[i*p.Dim : (i+1)*p.Dim]).Clone()
}

func (p *Phase) Clone() *Phase {
	c := &Phase{
		Dim: p.Dim,
		Pos: make([]float64, len(p.Pos)),
		Vel: make([]float64, len(p.Vel)),
	}
	copy(c.Pos, p.Pos)
	copy(c.Vel, p.Vel)
	return c
}

func (p *Phase) IsValid() bool {
	return Vec(p.Pos).IsValid() && Vec(p.Vel).IsValid()
}

// Field produces the acceleration of every particle for a given set of
// positions. Implementations must not retain pos or dst.
type Field interface {
	Accelerations(pos []float64, dst []float64)
}

// Integrator advances a Phase in place by dt under a Field.
type Integrator interface {
	Name() string
	Step(f Field, p *Phase, dt float64)
}
