package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func TestBuiltinsBuildValidSystems(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			ps, err := Builtin(name, 0, 0)
			require.NoError(t, err)
			require.NotEmpty(t, ps)

			sys, err := sim.New(ps)
			require.NoError(t, err)
			assert.Equal(t, builtins[name].dim, sys.Dim())
		})
	}
}

func TestBuiltinEarth(t *testing.T) {
	ps, err := Builtin("earth", 0, 0)
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, EarthMass, ps[0].Mass)
	assert.Equal(t, dynamo.Vec{EarthRadius}, ps[1].Position)
	assert.Equal(t, 10.0, ps[1].Mass)

	sys, err := sim.New(ps)
	require.NoError(t, err)
	g := sys.Acceleration(1)[0]
	assert.InDelta(t, -9.798, g, 0.01, "surface gravity points toward the Earth")
}

func TestBuiltinLine(t *testing.T) {
	ps, err := Builtin("line", 4, 3)
	require.NoError(t, err)
	require.Len(t, ps, 4)
	assert.Equal(t, dynamo.Vec{300, 300, 300}, ps[3].Position)
	assert.Equal(t, LineMass, ps[2].Mass)
}

func TestBuiltinBinaryIsCircular(t *testing.T) {
	ps, err := Builtin("binary", 0, 3)
	require.NoError(t, err)

	sys, err := sim.New(ps)
	require.NoError(t, err)

	// centripetal acceleration v²/r about the origin
	v := ps[1].Velocity.Norm()
	assert.InDelta(t, v*v, sys.Acceleration(1).Norm(), 1e-15)
	assert.Equal(t, 0.0, sys.Momentum().Norm())
}

func TestBuiltinRing(t *testing.T) {
	ps, err := Builtin("ring", 5, 2)
	require.NoError(t, err)
	require.Len(t, ps, 5)
	for _, p := range ps[1:] {
		assert.InDelta(t, ringRadius, p.Position.Norm(), 1e-9)
		assert.InDelta(t, 0, p.Position.Dot(p.Velocity), 1e-9, "satellites move tangentially")
	}
}

func TestBuiltinCube(t *testing.T) {
	ps, err := Builtin("cube", 10, 3)
	require.NoError(t, err)
	require.Len(t, ps, 10)

	seen := map[[3]float64]bool{}
	for _, p := range ps {
		key := [3]float64{p.Position[0], p.Position[1], p.Position[2]}
		assert.False(t, seen[key], "duplicate lattice point %v", key)
		seen[key] = true
		for _, c := range p.Position {
			assert.LessOrEqual(t, c, 2*LineSpacing)
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	_, err := Builtin("galaxy", 0, 0)
	assert.ErrorIs(t, err, dynamo.ErrUnknownScenario)

	_, err = Builtin("binary", 0, 1)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	_, err = Builtin("ring", 1, 2)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestDecodeConvertsKilometers(t *testing.T) {
	doc := `
dim: 2
bodies:
  - position: [0, 0]
    velocity: [0, 0]
    mass: 5.9722e24
  - position: [6378.1, 0]
    velocity: [0, 7.9]
    mass: 1000
`
	ps, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.InDelta(t, 6.3781e6, ps[1].Position[0], 1e-6)
	assert.InDelta(t, 7900, ps[1].Velocity[1], 1e-9)
	assert.Equal(t, 1000.0, ps[1].Mass)
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"bodies": [{"position": [1], "velocity": [0.5], "mass": 3}]}`
	ps, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, dynamo.Vec{1000}, ps[0].Position)
	assert.Equal(t, dynamo.Vec{500}, ps[0].Velocity)
}

func TestDecodeDimMismatch(t *testing.T) {
	doc := `
dim: 3
bodies:
  - {position: [1, 2, 3], velocity: [0, 0, 0], mass: 1}
  - {position: [1, 2], velocity: [0, 0], mass: 1}
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)

	var ce *dynamo.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Index)
}

func TestDecodeMixedDimsRejectedBySystem(t *testing.T) {
	doc := `
bodies:
  - {position: [1, 2], velocity: [0, 0], mass: 1}
  - {position: [1], velocity: [0], mass: 1}
`
	ps, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = sim.New(ps)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bodies:\n  - {position: [2], velocity: [0], mass: 4}\n"), 0644))

	ps, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, 2000.0, ps[0].Position[0])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("bodies: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEmptyDocument(t *testing.T) {
	ps, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ps)
}
