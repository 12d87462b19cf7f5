package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

// runName is the name a run is stored under: the scenario, or the base name
// of the initial-conditions file.
func runName(cfg *config.Config) string {
	if cfg.File == "" {
		return cfg.Scenario
	}
	base := filepath.Base(cfg.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sys := exp.System()
	masses := make([]float64, sys.Len())
	for i := range masses {
		masses[i] = sys.Mass(i)
	}

	fmt.Printf("running %s: %d bodies in %dD, %s, dt=%g, %d steps\n",
		runName(cfg), sys.Len(), sys.Dim(), cfg.Integrator, cfg.Dt, cfg.Steps)

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run interrupted, saving partial result", zap.Error(runErr))
	}

	runID, err := st.Save(storage.RunMetadata{
		Scenario:    runName(cfg),
		Integrator:  cfg.Integrator,
		Dt:          cfg.Dt,
		Steps:       result.StepsTaken,
		RecordEvery: cfg.RecordEvery,
		Threshold:   cfg.Threshold,
		Masses:      masses,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, frames: %d\n", result.StepsTaken, len(result.Frames))
	fmt.Printf("energy: %.10e -> %.10e (drift %+.3e)\n", result.InitialEnergy, result.FinalEnergy, result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDIM\tDURATION\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4gs\t%gs\t%s\t%+.3e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Dim,
			run.Duration(),
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// maxPlots bounds how many position series plot prints.
const maxPlots = 6

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	only, _ := cmd.Flags().GetInt("body")
	svgPath, _ := cmd.Flags().GetString("svg")

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	if len(frames) > 1 {
		fmt.Println(asciigraph.Plot(analysis.Energies(frames),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy (J)"),
		))
		fmt.Println()
	}

	plotted := 0
	for body := 0; body < meta.Bodies && plotted < maxPlots; body++ {
		if only >= 0 && body != only {
			continue
		}
		for axis := 0; axis < meta.Dim && plotted < maxPlots; axis++ {
			data, err := analysis.Series(frames, meta.Dim, body, axis)
			if err != nil {
				return err
			}
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s vs time (m)", storage.Column(body, axis))),
			))
			fmt.Println()
			plotted++
		}
	}

	if svgPath == "" {
		return nil
	}

	var paths [][]analysis.Point
	for body := 0; body < meta.Bodies; body++ {
		if only >= 0 && body != only {
			continue
		}
		pts, err := analysis.Trajectory(frames, meta.Dim, body, 0, 1)
		if err != nil {
			return err
		}
		paths = append(paths, pts)
	}
	if err := os.WriteFile(svgPath, []byte(export.TrajectorySVG(paths, 800, 800)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	return storage.New(dataDir).ExportJSON(args[0], out)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	perturbation, _ := cmd.Flags().GetFloat64("perturbation")

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	// the final frame is off the sampling grid when steps is not a multiple
	// of record_every
	if meta.RecordEvery > 0 && meta.Steps%meta.RecordEvery != 0 && len(frames) > 0 {
		frames = frames[:len(frames)-1]
	}
	sample := meta.Dt * float64(meta.RecordEvery)

	fmt.Printf("run: %s (%d bodies in %dD, %d samples every %gs)\n\n", meta.ID, meta.Bodies, meta.Dim, len(frames), sample)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPERIOD")
	for body := 0; body < meta.Bodies; body++ {
		for axis := 0; axis < meta.Dim; axis++ {
			series, err := analysis.Series(frames, meta.Dim, body, axis)
			if err != nil {
				return err
			}
			period, err := analysis.DominantPeriod(series, sample)
			if err != nil {
				fmt.Fprintf(w, "%s\t-\n", storage.Column(body, axis))
				continue
			}
			fmt.Fprintf(w, "%s\t%.4gs\n", storage.Column(body, axis), period)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps, err := scenario.Builtin(meta.Scenario, meta.Bodies, meta.Dim)
	if err != nil {
		logger.Debug("skipping divergence estimate", zap.String("scenario", meta.Scenario), zap.Error(err))
		return nil
	}
	div, err := analysis.Divergence(ps, meta.Integrator, perturbation, meta.Dt, meta.Steps,
		sim.WithThreshold(meta.Threshold), sim.WithWorkers(workers))
	if err != nil {
		return err
	}
	if len(div.Separations) == 0 {
		return nil
	}
	fmt.Printf("\ndivergence of a %gm perturbation over %gs: %.4g m (exponent %.4g /s)\n",
		perturbation, meta.Duration(), div.Separations[len(div.Separations)-1], div.Exponent)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := scenario.Names()
	if len(args) > 0 {
		names = args
	}
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			c := config.GetPreset(name, p)
			fmt.Printf("  %-12s %s dt=%g steps=%d\n", p, c.Integrator, c.Dt, c.Steps)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
