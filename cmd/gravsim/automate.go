package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if b.Name != "" {
		fmt.Printf("%s: %s\n\n", b.Name, b.Description)
	}
	results, err := automation.RunBatch(cmd.Context(), b, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRUN ID\tSTEPS\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%+.3e\n", r.Name, r.RunID, r.Result.StepsTaken, r.Result.EnergyDrift)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	trials, _ := cmd.Flags().GetInt("trials")
	perturbation, _ := cmd.Flags().GetFloat64("perturbation")
	seed, _ := cmd.Flags().GetInt64("seed")
	maxDrift, _ := cmd.Flags().GetFloat64("max-drift")
	jobs, _ := cmd.Flags().GetInt("jobs")

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Config:       cfg,
		Perturbation: perturbation,
		Trials:       trials,
		Seed:         seed,
		MaxDrift:     maxDrift,
		Jobs:         jobs,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = max(worst, math.Abs(r.Drift))
	}
	fmt.Printf("%s: %d trials, %gm jitter\n", runName(cfg), len(results), perturbation)
	fmt.Printf("stable: %d  unstable: %d  worst |drift|: %.3e\n", stable, unstable, worst)
	return nil
}

// parseGrid reads "name=v1,v2,..." specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, entry := range specs {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("grid %q: want name=v1,v2,...", entry)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", entry, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("grid")
	objective, _ := cmd.Flags().GetString("objective")

	names, ranges, err := parseGrid(specs)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges, logger)
	if err != nil {
		return err
	}

	best, val, trials, err := g.Search(cmd.Context(), cfg, objective)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(objective))
	for _, t := range trials {
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		v := fmt.Sprintf("%.4e", t.Value)
		if t.Err != nil {
			v = "error: " + t.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), v)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, best[k])
	}
	fmt.Printf("\nbest: %s (%s %.4e)\n", strings.Join(parts, " "), objective, val)
	return nil
}
