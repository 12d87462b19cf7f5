package analysis

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
)

type ConvergenceConfig struct {
	Particles  []sim.Particle
	Integrator string
	// Dt is the coarsest step; each further level halves it.
	Dt      float64
	Horizon float64
	Levels  int
	// Threshold is the near-pair cutoff handed to every level's system.
	// Zero disables the cutoff.
	Threshold float64
	// ForceWorkers is the goroutine count per force evaluation.
	ForceWorkers int
	// Jobs bounds how many levels run at once. Zero means no bound.
	Jobs int
}

type ConvergencePoint struct {
	Dt    float64
	Steps int
	Drift float64
	// Order is log2 of the drift ratio against the previous, coarser level.
	// It is NaN on the first level.
	Order   float64
	Elapsed time.Duration
}

// Convergence integrates the same initial conditions at successively halved
// step sizes over a fixed horizon and reports the energy drift of each. Each
// level owns its system, so levels run concurrently.
func Convergence(ctx context.Context, cfg ConvergenceConfig) ([]ConvergencePoint, error) {
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return nil, err
	}

	points := make([]ConvergencePoint, cfg.Levels)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}

	for level := 0; level < cfg.Levels; level++ {
		dt := cfg.Dt / math.Pow(2, float64(level))
		steps := int(math.Round(cfg.Horizon / dt))
		g.Go(func() error {
			sys, err := newSystem(cfg.Particles, cfg.Integrator,
				sim.WithThreshold(cfg.Threshold), sim.WithWorkers(cfg.ForceWorkers))
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := sim.NewSimulator().Run(gctx, sys, sim.Config{Dt: dt, Steps: steps, RecordEvery: max(steps, 1)})
			if err != nil {
				return err
			}

			points[level] = ConvergencePoint{
				Dt:      dt,
				Steps:   steps,
				Drift:   res.EnergyDrift,
				Elapsed: time.Since(start),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range points {
		points[i].Order = math.NaN()
		if i > 0 && points[i].Drift != 0 {
			points[i].Order = math.Log2(math.Abs(points[i-1].Drift / points[i].Drift))
		}
	}
	return points, nil
}
