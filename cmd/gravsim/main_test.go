package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/config"
)

func newSimCmd(t *testing.T) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	simFlags(cmd)
	cmd.Flags().StringVar(&preset, "preset", "", "")
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newSimCmd(t)
	cfg, err := resolveConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: ring\ndt: 0.5\nsteps: 20\nbodies: 12\n"), 0644))

	cmd := newSimCmd(t)
	configFile = path
	t.Cleanup(func() { configFile = "" })
	require.NoError(t, cmd.Flags().Set("steps", "7"))

	cfg, err := resolveConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "ring", cfg.Scenario)
	assert.Equal(t, 0.5, cfg.Dt, "unset flag must not override the file")
	assert.Equal(t, 7, cfg.Steps)
	assert.Equal(t, 12, cfg.Bodies)
}

func TestResolveConfigPreset(t *testing.T) {
	cmd := newSimCmd(t)
	require.NoError(t, cmd.Flags().Set("preset", "symplectic"))
	t.Cleanup(func() { preset = "" })

	cfg, err := resolveConfig(cmd, []string{"binary"})
	require.NoError(t, err)
	assert.Equal(t, "verlet", cfg.Integrator)

	_, err = resolveConfig(cmd, []string{"earth"})
	assert.Error(t, err)
}

func TestResolveConfigRejectsBadDt(t *testing.T) {
	cmd := newSimCmd(t)
	require.NoError(t, cmd.Flags().Set("dt", "0"))
	_, err := resolveConfig(cmd, nil)
	assert.Error(t, err)
}

func TestRunName(t *testing.T) {
	assert.Equal(t, "ring", runName(&config.Config{Scenario: "ring"}))
	assert.Equal(t, "solar", runName(&config.Config{Scenario: "earth", File: "/tmp/bodies/solar.yaml"}))
}

func TestBenchmark(t *testing.T) {
	r, err := benchmark(1, 10, 100, "rk4", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Bodies)
	assert.Zero(t, r.EnergyError, "a lone body has no energy to lose")

	r, err = benchmark(5, 10, 100, "rk4", 1)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(r.EnergyError))
	assert.Less(t, math.Abs(r.EnergyError), 1e-6)
	assert.Equal(t, 5, r.Bodies)

	_, err = benchmark(5, 0, 1e3, "rk4", 1)
	assert.Error(t, err)

	for _, n := range []int{0, -3} {
		_, err = benchmark(n, 10, 100, "rk4", 1)
		assert.Error(t, err, "bodies %d", n)
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"dt=0.01, 0.02", "workers=1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dt", "workers"}, names)
	assert.Equal(t, [][]float64{{0.01, 0.02}, {1}}, ranges)

	for _, bad := range []string{"dt", "dt=", "dt=fast"} {
		_, _, err := parseGrid([]string{bad})
		assert.Error(t, err, bad)
	}
}
