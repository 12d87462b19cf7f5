package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

// Batch is a scripted list of runs. Each run is a config document laid over
// the defaults, plus an optional save_as label.
type Batch struct {
	Name        string
	Description string
	Runs        []BatchRun
}

type BatchRun struct {
	SaveAs string
	Config *config.Config
}

type batchFile struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Runs        []yaml.Node `yaml:"runs"`
}

// LoadBatch reads a batch from a YAML file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	b := &Batch{Name: f.Name, Description: f.Description, Runs: make([]BatchRun, 0, len(f.Runs))}
	for i := range f.Runs {
		cfg := config.DefaultConfig()
		if err := f.Runs[i].Decode(cfg); err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", path, i+1, err)
		}
		var label struct {
			SaveAs string `yaml:"save_as"`
		}
		if err := f.Runs[i].Decode(&label); err != nil {
			return nil, fmt.Errorf("%s: run %d: %w", path, i+1, err)
		}
		b.Runs = append(b.Runs, BatchRun{SaveAs: label.SaveAs, Config: cfg})
	}
	return b, nil
}

type BatchResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

// RunBatch executes the runs in order and stops at the first failure. When
// store is not nil every result is saved; the run is stored under SaveAs
// if set, otherwise its scenario name.
func RunBatch(ctx context.Context, b *Batch, store *storage.Store, logger *zap.Logger) ([]BatchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]BatchResult, 0, len(b.Runs))

	for i, run := range b.Runs {
		name := run.SaveAs
		if name == "" {
			name = run.Config.Scenario
		}
		logger.Info("batch run", zap.Int("index", i+1), zap.Int("of", len(b.Runs)), zap.String("name", name))

		exp, err := experiment.New(run.Config, logger)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		masses := make([]float64, exp.System().Len())
		for j := range masses {
			masses[j] = exp.System().Mass(j)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		br := BatchResult{Name: name, Result: result}
		if store != nil {
			br.RunID, err = store.Save(storage.RunMetadata{
				Scenario:    name,
				Integrator:  run.Config.Integrator,
				Dt:          run.Config.Dt,
				Steps:       result.StepsTaken,
				RecordEvery: run.Config.RecordEvery,
				Masses:      masses,
			}, result)
			if err != nil {
				return results, fmt.Errorf("run %d: save: %w", i+1, err)
			}
		}
		results = append(results, br)
	}

	return results, nil
}

// MonteCarloConfig describes an ensemble of runs whose initial positions
// are jittered uniformly by up to Perturbation metres on every axis.
type MonteCarloConfig struct {
	Config       *config.Config
	Perturbation float64
	Trials       int
	Seed         int64
	// MaxDrift is the largest |energy drift| a stable trial may show. Zero
	// only requires the trial to stay finite.
	MaxDrift float64
	// Jobs bounds concurrent trials. Zero means no bound. Force evaluation
	// within a trial uses Config.Workers.
	Jobs int
}

type MonteCarloResult struct {
	TrialID int
	Drift   float64
	Stable  bool
}

// RunMonteCarlo runs the trials concurrently. Every trial draws from its
// own generator seeded from Seed and the trial index, so results do not
// depend on scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	base, err := experiment.Particles(cfg.Config)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]MonteCarloResult, cfg.Trials)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}

	for trial := 0; trial < cfg.Trials; trial++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(trial)))
			exp, err := experiment.WithParticles(cfg.Config, jitter(base, cfg.Perturbation, rng), nil)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}

			stable := len(result.Errors) == 0 && !math.IsNaN(result.EnergyDrift)
			if cfg.MaxDrift > 0 && math.Abs(result.EnergyDrift) > cfg.MaxDrift {
				stable = false
			}
			results[trial] = MonteCarloResult{TrialID: trial, Drift: result.EnergyDrift, Stable: stable}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func jitter(ps []sim.Particle, amount float64, rng *rand.Rand) []sim.Particle {
	out := make([]sim.Particle, len(ps))
	for i, p := range ps {
		out[i] = sim.Particle{Position: p.Position.Clone(), Velocity: p.Velocity.Clone(), Mass: p.Mass}
		for k := range out[i].Position {
			out[i].Position[k] += (rng.Float64() - 0.5) * 2 * amount
		}
	}
	return out
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
