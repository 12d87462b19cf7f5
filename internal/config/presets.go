package config

import "sort"

// Presets are tuned run settings, keyed by scenario and then preset name.
var Presets = map[string]map[string]*Config{
	"earth": {
		"surface": {
			Scenario: "earth", Integrator: "rk4", Dt: 0.001, Steps: 1000, RecordEvery: 10,
		},
		"drop": {
			Scenario: "earth", Integrator: "euler", Dt: 0.01, Steps: 6000, RecordEvery: 100,
		},
	},
	"binary": {
		"orbit": {
			Scenario: "binary", Integrator: "rk4", Dt: 0.01, Steps: 1600, RecordEvery: 10, Dim: 2,
		},
		"symplectic": {
			Scenario: "binary", Integrator: "verlet", Dt: 0.05, Steps: 3200, RecordEvery: 10, Dim: 2,
		},
	},
	"ring": {
		"small": {
			Scenario: "ring", Integrator: "rk4", Dt: 0.05, Steps: 2000, RecordEvery: 10, Bodies: 8,
		},
		"crowded": {
			Scenario: "ring", Integrator: "rk4", Dt: 0.02, Steps: 5000, RecordEvery: 25, Bodies: 64,
		},
	},
	"line": {
		"collapse": {
			Scenario: "line", Integrator: "rk4", Dt: 2e5, Steps: 500, RecordEvery: 5, Bodies: 5, Dim: 2,
		},
	},
	"cube": {
		"lattice": {
			Scenario: "cube", Integrator: "rk4", Dt: 10, Steps: 1000, RecordEvery: 10, Bodies: 27, Dim: 3,
		},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil if it does not exist.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Integrator = p.Integrator
	cfg.Dt = p.Dt
	cfg.Steps = p.Steps
	cfg.RecordEvery = p.RecordEvery
	cfg.Bodies = p.Bodies
	cfg.Dim = p.Dim
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
