package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

var descriptions = map[string]string{
	"earth":  "a 10 kg mass dropped at Earth's surface, 1-D",
	"line":   "bodies at rest on a diagonal, collapsing",
	"binary": "two equal masses on a circular orbit",
	"ring":   "satellites circling a heavy central mass",
	"cube":   "a 3-D lattice at rest",
}

func builder(cfg *config.Config) viz.Builder {
	return func() (*sim.System, error) {
		return experiment.NewSystem(cfg)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	fit, _ := cmd.Flags().GetBool("fit")

	if len(args) == 0 && cfg.File == "" && configFile == "" {
		entries := make([]viz.Entry, 0, len(scenario.Names()))
		for _, name := range scenario.Names() {
			entries = append(entries, viz.Entry{Name: name, Description: descriptions[name]})
		}
		factory := func(name, integ string) viz.Builder {
			c := *cfg
			c.Scenario = name
			c.Integrator = integ
			c.Bodies, c.Dim = 0, 0
			logger.Debug("starting live view", zap.String("scenario", name), zap.String("integrator", integ))
			return builder(&c)
		}
		return viz.Run(viz.NewPicker(entries, integrators.Names(), cfg.Dt, factory))
	}

	m, err := viz.NewModel(builder(cfg), runName(cfg), cfg.Dt, fit)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	fit, _ := cmd.Flags().GetBool("fit")
	return gui.Run(builder(cfg), runName(cfg), cfg.Dt, fit)
}
