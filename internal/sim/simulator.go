package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Simulator drives a System for a fixed number of steps, recording frames
// and feeding metrics and observers between steps.
type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

type SimulatorOption func(*Simulator)

func WithLogger(l *zap.Logger) SimulatorOption {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances sys cfg.Steps times by cfg.Dt. Cancellation is honoured
// between steps; a step in progress always completes.
func (s *Simulator) Run(ctx context.Context, sys *System, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Dim:     sys.Dim(),
		Frames:  make([]Frame, 0, cfg.Steps/cfg.RecordEvery+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("simulation started",
		zap.Int("bodies", sys.Len()),
		zap.Int("dim", sys.Dim()),
		zap.String("integrator", sys.IntegratorName()),
		zap.Float64("dt", cfg.Dt),
		zap.Int("steps", cfg.Steps))

	start := time.Now()
	s.record(sys, result)
	result.InitialEnergy = result.Frames[0].Energy

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(sys, result, start)
			return result, ctx.Err()
		default:
		}

		sys.Advance(cfg.Dt)
		result.StepsTaken++

		if (i+1)%cfg.RecordEvery != 0 && i != cfg.Steps-1 {
			continue
		}

		f := s.record(sys, result)
		if cfg.ValidateState && !(dynamo.Vec(f.Positions).IsValid() && dynamo.Vec(f.Velocities).IsValid() && !math.IsNaN(f.Energy)) {
			err := dynamo.SimError{Time: f.Time, Step: f.Step, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("state diverged", zap.Int("step", f.Step), zap.Float64("t", f.Time))
			break
		}
	}

	s.finish(sys, result, start)

	s.logger.Info("simulation finished",
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("energy_drift", result.EnergyDrift))

	return result, nil
}

// finish fills the summary fields, also for a run cut short.
func (s *Simulator) finish(sys *System, result *Result, start time.Time) {
	result.Elapsed = time.Since(start)
	result.FinalEnergy = sys.TotalEnergy()
	result.EnergyDrift = Drift(result.InitialEnergy, result.FinalEnergy)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) record(sys *System, result *Result) Frame {
	f := sys.frame()
	result.Frames = append(result.Frames, f)
	for _, m := range s.metrics {
		m.Observe(sys)
	}
	for _, obs := range s.observers {
		obs.OnFrame(f)
	}
	return f
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt == 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be finite and non-zero, got %f", cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", cfg.Steps)
	}
	if cfg.RecordEvery < 1 {
		return fmt.Errorf("record interval must be positive, got %d", cfg.RecordEvery)
	}
	return nil
}
