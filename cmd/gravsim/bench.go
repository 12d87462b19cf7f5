package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	benchTrials    = 500
	benchTotalTime = 1e8
)

type benchResult struct {
	Bodies      int
	Tick        time.Duration
	EnergyError float64
}

// benchmark times trials ticks of total/trials seconds on the line layout
// of n bodies and reports the mean tick and the relative energy change.
func benchmark(n, trials int, total float64, integ string, workers int) (benchResult, error) {
	if n < 1 {
		return benchResult{}, fmt.Errorf("body count must be positive, got %d", n)
	}
	if trials < 1 {
		return benchResult{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	ps, err := scenario.Builtin("line", n, 0)
	if err != nil {
		return benchResult{}, err
	}
	in, err := integrators.New(integ)
	if err != nil {
		return benchResult{}, err
	}
	sys, err := sim.New(ps, sim.WithIntegrator(in), sim.WithWorkers(workers))
	if err != nil {
		return benchResult{}, err
	}

	e0 := sys.TotalEnergy()
	h := total / float64(trials)
	start := time.Now()
	for i := 0; i < trials; i++ {
		sys.Advance(h)
	}
	elapsed := time.Since(start)

	return benchResult{
		Bodies:      sys.Len(),
		Tick:        elapsed / time.Duration(trials),
		EnergyError: sim.Drift(e0, sys.TotalEnergy()),
	}, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	sizes, _ := cmd.Flags().GetIntSlice("sizes")
	trials, _ := cmd.Flags().GetInt("trials")
	total, _ := cmd.Flags().GetFloat64("total")

	w := tabwriter.NewWriter(os.Stdout, 10, 0, 1, ' ', tabwriter.Debug)
	fmt.Fprintln(w, "bodies\ttick (ns)\tenergy err\t")
	for _, n := range sizes {
		logger.Debug("benchmarking", zap.Int("bodies", n), zap.Int("trials", trials))
		r, err := benchmark(n, trials, total, integrator, workers)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%d\t%.4e\t\n", r.Bodies, r.Tick.Nanoseconds(), r.EnergyError)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args[1:]

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tTIME\tFINAL ENERGY\tDRIFT\tMAX |DRIFT|\tMOMENTUM")

	for _, name := range names {
		cfg, err := resolveConfig(cmd, args[:1])
		if err != nil {
			return err
		}
		cfg.Integrator = name

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return err
		}
		result, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s\t%d\t%v\t%.10e\t%+.3e\t%.3e\t%.3e\n",
			name,
			result.StepsTaken,
			result.Elapsed.Round(time.Microsecond),
			result.FinalEnergy,
			result.EnergyDrift,
			result.Metrics["energy_drift"],
			result.Metrics["momentum_drift"],
		)
	}

	return w.Flush()
}

func runConverge(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	levels, _ := cmd.Flags().GetInt("levels")
	horizon, _ := cmd.Flags().GetFloat64("horizon")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if horizon == 0 {
		horizon = cfg.Dt * float64(cfg.Steps)
	}

	ps, err := experiment.Particles(cfg)
	if err != nil {
		return err
	}

	points, err := analysis.Convergence(cmd.Context(), analysis.ConvergenceConfig{
		Particles:    ps,
		Integrator:   cfg.Integrator,
		Dt:           cfg.Dt,
		Horizon:      horizon,
		Levels:       levels,
		Threshold:    cfg.Threshold,
		ForceWorkers: cfg.Workers,
		Jobs:         jobs,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s with %s over %gs\n\n", runName(cfg), cfg.Integrator, horizon)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tDRIFT\tORDER\tTIME")
	for _, p := range points {
		order := "-"
		if !math.IsNaN(p.Order) && !math.IsInf(p.Order, 0) {
			order = fmt.Sprintf("%.2f", p.Order)
		}
		fmt.Fprintf(w, "%g\t%d\t%+.3e\t%s\t%v\n", p.Dt, p.Steps, p.Drift, order, p.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}
