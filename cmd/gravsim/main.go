package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/optim"
)

var (
	dataDir     string
	configFile  string
	verbose     bool
	preset      string
	file        string
	integrator  string
	dt          float64
	steps       int
	recordEvery int
	bodies      int
	dim         int
	workers     int
	threshold   float64
	scale       float64

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "newtonian n-body gravity simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation and store its trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a simulation in the terminal (menu when no scenario is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	simFlags(liveCmd)
	liveCmd.Flags().Bool("fit", true, "scale the view to the initial positions")

	guiCmd := &cobra.Command{
		Use:   "gui [scenario]",
		Short: "watch a simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	simFlags(guiCmd)
	guiCmd.Flags().Bool("fit", true, "scale the view to the initial positions")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time ticks of the line layout for several system sizes",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntSlice("sizes", []int{1, 5, 100, 1000}, "numbers of bodies")
	benchCmd.Flags().Int("trials", benchTrials, "ticks per size")
	benchCmd.Flags().Float64("total", benchTotalTime, "simulated seconds per size")
	benchCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "force evaluation workers (0 = all CPUs)")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	simFlags(compareCmd)

	convergeCmd := &cobra.Command{
		Use:   "converge [scenario]",
		Short: "measure energy drift as dt is halved",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConverge,
	}
	simFlags(convergeCmd)
	convergeCmd.Flags().Int("levels", 4, "number of step sizes")
	convergeCmd.Flags().Float64("horizon", 0, "simulated seconds (default dt*steps)")
	convergeCmd.Flags().Int("jobs", 0, "step sizes integrated at once (0 = no limit)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and positions of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Int("body", -1, "only plot this body")
	plotCmd.Flags().String("svg", "", "write the trajectories as SVG to this path")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("output", "o", "-", "output path (- for stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods and sensitivity of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64("perturbation", 1e-3, "initial displacement in metres for the divergence estimate")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "force evaluation workers (0 = all CPUs)")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run and store every run listed in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scenario]",
		Short: "run an ensemble with jittered initial positions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	simFlags(monteCarloCmd)
	monteCarloCmd.Flags().Int("trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64("perturbation", 1, "largest jitter per axis in metres")
	monteCarloCmd.Flags().Int64("seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().Float64("max-drift", 0, "largest |energy drift| counted as stable (0 = only require finite)")
	monteCarloCmd.Flags().Int("jobs", 0, "trials run at once (0 = no limit)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search over run parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringArray("grid", nil, "parameter grid as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().String("objective", optim.AbsDrift, "value to minimise: abs_drift or a metric name")
	_ = sweepCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, benchCmd, compareCmd, convergeCmd, listCmd, plotCmd, exportJSONCmd, analyzeCmd, presetsCmd,
		batchCmd, monteCarloCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&file, "file", "", "initial conditions file (km, km/s)")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "integrator")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep in seconds")
	cmd.Flags().IntVar(&steps, "steps", def.Steps, "number of steps")
	cmd.Flags().IntVar(&recordEvery, "record-every", def.RecordEvery, "steps between recorded frames")
	cmd.Flags().IntVar(&bodies, "bodies", 0, "number of bodies (0 = scenario default)")
	cmd.Flags().IntVar(&dim, "dim", 0, "spatial dimension (0 = scenario default)")
	cmd.Flags().IntVar(&workers, "workers", 0, "force evaluation workers (0 = all CPUs)")
	cmd.Flags().Float64Var(&threshold, "threshold", def.Threshold, "near-coincidence distance in metres")
	cmd.Flags().Float64Var(&scale, "scale", def.Scale, "view scale in pixels per metre")
}

// resolveConfig layers the run settings: defaults, then the preset, then
// the config file, then the scenario argument and any flag set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		fc, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fc
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.File = file
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("dim") {
		cfg.Dim = dim
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
