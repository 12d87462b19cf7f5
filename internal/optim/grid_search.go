package optim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

// AbsDrift names the objective |final energy drift|, which is not one of
// the result metrics.
const AbsDrift = "abs_drift"

// Params lists the config fields a grid may vary.
var Params = []string{"dt", "steps", "threshold", "bodies", "workers"}

// Apply sets the named config field to v.
func Apply(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dt = v
	case "steps":
		cfg.Steps = int(v)
	case "threshold":
		cfg.Threshold = v
	case "bodies":
		cfg.Bodies = int(v)
	case "workers":
		cfg.Workers = int(v)
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, Params)
	}
	return nil
}

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *zap.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *zap.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	probe := config.DefaultConfig()
	for _, p := range params {
		if err := Apply(probe, p, 0); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}, nil
}

// Search runs base with every combination of the grid and returns the
// combination with the smallest objective, plus every trial in grid order.
// Combinations that fail to build or run are kept in the trial list with
// their error and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective string) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &trials)
	if err != nil {
		return nil, 0, trials, err
	}

	for _, t := range trials {
		if t.Err == nil && t.Value < best {
			best = t.Value
			bestParams = t.Params
		}
	}
	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("no grid point completed")
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, current, base, objective)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		*trials = append(*trials, Trial{Params: current, Value: val, Err: err})
		g.logger.Debug("grid point", zap.Any("params", current), zap.Float64(objective, val), zap.Error(err))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, trials); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, objective string) (float64, error) {
	cfg := *base
	for k, v := range params {
		if err := Apply(&cfg, k, v); err != nil {
			return math.NaN(), err
		}
	}

	exp, err := experiment.New(&cfg, g.logger)
	if err != nil {
		return math.NaN(), err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return math.NaN(), err
	}
	return Objective(result, objective)
}

// Objective reads the named value from a result.
func Objective(r *sim.Result, name string) (float64, error) {
	if len(r.Errors) > 0 {
		return math.NaN(), r.Errors[0]
	}
	if name == AbsDrift {
		return math.Abs(r.EnergyDrift), nil
	}
	v, ok := r.Metrics[name]
	if !ok {
		return math.NaN(), fmt.Errorf("unknown objective %q", name)
	}
	return v, nil
}
