package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

// Experiment is one configured run: a system, the simulator that drives it
// and the settings it was built from.
type Experiment struct {
	cfg       *config.Config
	system    *sim.System
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ps, err := Particles(cfg)
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	return WithParticles(cfg, ps, logger)
}

// WithParticles is New with the initial conditions given explicitly instead
// of resolved from cfg.
func WithParticles(cfg *config.Config, ps []sim.Particle, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sys, err := Build(cfg, ps)
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}

	simulator := sim.NewSimulator(sim.WithLogger(logger))
	for _, m := range DefaultMetrics() {
		simulator.AddMetric(m)
	}
	if logger != nil {
		simulator.AddObserver(progress{logger: logger, steps: cfg.Steps})
	}

	return &Experiment{cfg: cfg, system: sys, simulator: simulator}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.system, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Steps:         e.cfg.Steps,
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) System() *sim.System       { return e.system }
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// progress logs every recorded frame at debug level.
type progress struct {
	logger *zap.Logger
	steps  int
}

func (p progress) OnFrame(f sim.Frame) {
	p.logger.Debug("frame",
		zap.Int("step", f.Step),
		zap.Int("of", p.steps),
		zap.Float64("t", f.Time),
		zap.Float64("energy", f.Energy))
}
