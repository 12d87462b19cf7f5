// Package scenario builds initial conditions: the built-in layouts and
// particle lists read from files.
package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	EarthMass   = 5.9722e24
	EarthRadius = 6.3781e6

	// LineSpacing and LineMass lay out the benchmark system.
	LineSpacing = 100.0
	LineMass    = 1e10

	ringRadius  = 100.0
	ringCentral = 1e12
	ringMass    = 1e6
)

type builder struct {
	bodies, dim int
	build       func(n, dim int) ([]sim.Particle, error)
}

var builtins = map[string]builder{
	"earth":  {2, 1, earth},
	"line":   {5, 2, line},
	"binary": {2, 2, binary},
	"ring":   {8, 2, ring},
	"cube":   {27, 3, cube},
}

// Builtin returns the named layout with n bodies in dim dimensions. Zero
// for either picks the layout's default.
func Builtin(name string, n, dim int) ([]sim.Particle, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownScenario, name, Names())
	}
	if n <= 0 {
		n = b.bodies
	}
	if dim <= 0 {
		dim = b.dim
	}
	return b.build(n, dim)
}

func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func at(dim int, coords ...float64) dynamo.Vec {
	v := dynamo.NewVec(dim)
	copy(v, coords)
	return v
}

// earth is a 10 kg particle resting on the surface of the Earth. Extra
// dimensions are zero; the body count is fixed.
func earth(_, dim int) ([]sim.Particle, error) {
	return []sim.Particle{
		{Position: at(dim), Velocity: at(dim), Mass: EarthMass},
		{Position: at(dim, EarthRadius), Velocity: at(dim), Mass: 10},
	}, nil
}

func line(n, dim int) ([]sim.Particle, error) {
	ps := make([]sim.Particle, n)
	for i := range ps {
		pos := dynamo.NewVec(dim)
		for k := range pos {
			pos[k] = float64(i) * LineSpacing
		}
		ps[i] = sim.Particle{Position: pos, Velocity: dynamo.NewVec(dim), Mass: LineMass}
	}
	return ps, nil
}

// binary places two equal masses at (±1, 0) on a circular orbit about the
// origin.
func binary(_, dim int) ([]sim.Particle, error) {
	if dim < 2 {
		return nil, fmt.Errorf("binary needs at least 2 dimensions, got %d: %w", dim, dynamo.ErrParameterBounds)
	}
	const m = 1e10
	v := math.Sqrt(physics.G * m / 4)
	return []sim.Particle{
		{Position: at(dim, -1), Velocity: at(dim, 0, -v), Mass: m},
		{Position: at(dim, 1), Velocity: at(dim, 0, v), Mass: m},
	}, nil
}

// ring surrounds a heavy central body with n−1 light satellites on circular
// orbits in the first two axes.
func ring(n, dim int) ([]sim.Particle, error) {
	if dim < 2 {
		return nil, fmt.Errorf("ring needs at least 2 dimensions, got %d: %w", dim, dynamo.ErrParameterBounds)
	}
	if n < 2 {
		return nil, fmt.Errorf("ring needs at least 2 bodies, got %d: %w", n, dynamo.ErrParameterBounds)
	}

	ps := make([]sim.Particle, 0, n)
	ps = append(ps, sim.Particle{Position: at(dim), Velocity: at(dim), Mass: ringCentral})

	v := math.Sqrt(physics.G * ringCentral / ringRadius)
	for i := 1; i < n; i++ {
		theta := 2 * math.Pi * float64(i-1) / float64(n-1)
		sin, cos := math.Sincos(theta)
		ps = append(ps, sim.Particle{
			Position: at(dim, ringRadius*cos, ringRadius*sin),
			Velocity: at(dim, -v*sin, v*cos),
			Mass:     ringMass,
		})
	}
	return ps, nil
}

// cube fills a lattice with LineSpacing between neighbours, all at rest.
func cube(n, dim int) ([]sim.Particle, error) {
	side := int(math.Ceil(math.Pow(float64(n), 1/float64(dim))))
	for pow(side-1, dim) >= n && side > 1 {
		side--
	}
	for pow(side, dim) < n {
		side++
	}

	ps := make([]sim.Particle, n)
	for i := range ps {
		pos := dynamo.NewVec(dim)
		idx := i
		for k := 0; k < dim; k++ {
			pos[k] = float64(idx%side) * LineSpacing
			idx /= side
		}
		ps[i] = sim.Particle{Position: pos, Velocity: dynamo.NewVec(dim), Mass: LineMass}
	}
	return ps, nil
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}
