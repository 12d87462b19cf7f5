package experiment

import (
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

// Particles resolves the initial conditions a config names: the file when
// one is set, otherwise the built-in scenario.
func Particles(cfg *config.Config) ([]sim.Particle, error) {
	if cfg.File != "" {
		return scenario.Load(cfg.File)
	}
	return scenario.Builtin(cfg.Scenario, cfg.Bodies, cfg.Dim)
}

// NewSystem builds a ready-to-step system from cfg.
func NewSystem(cfg *config.Config) (*sim.System, error) {
	ps, err := Particles(cfg)
	if err != nil {
		return nil, err
	}
	return Build(cfg, ps)
}

// Build makes a system from explicit particles with the integrator and force
// settings of cfg.
func Build(cfg *config.Config, ps []sim.Particle) (*sim.System, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	opts := []sim.Option{
		sim.WithIntegrator(integ),
		sim.WithWorkers(cfg.Workers),
		sim.WithThreshold(cfg.Threshold),
		sim.WithScale(cfg.Scale),
	}
	if len(ps) == 0 && cfg.Dim > 0 {
		opts = append(opts, sim.WithDim(cfg.Dim))
	}
	return sim.New(ps, opts...)
}

func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewFinite(),
	}
}
