package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	DefaultScenario    = "earth"
	DefaultDt          = 0.001
	DefaultSteps       = 1000
	DefaultRecordEvery = 1
	DefaultScale       = 1.0
)

// Config describes one run. Bodies and Dim of zero leave the choice to the
// scenario; Workers of zero uses every CPU.
type Config struct {
	Scenario    string  `yaml:"scenario"`
	File        string  `yaml:"file,omitempty"`
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	RecordEvery int     `yaml:"record_every"`
	Bodies      int     `yaml:"bodies"`
	Dim         int     `yaml:"dim"`
	Workers     int     `yaml:"workers"`
	Threshold   float64 `yaml:"threshold"`
	Scale       float64 `yaml:"scale"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    DefaultScenario,
		Integrator:  integrators.Default,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		RecordEvery: DefaultRecordEvery,
		Threshold:   physics.NearThreshold,
		Scale:       DefaultScale,
	}
}

// Load overlays the YAML file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt == 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt %g: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps %d: %w", c.Steps, dynamo.ErrParameterBounds)
	}
	if c.RecordEvery < 1 {
		return fmt.Errorf("record_every %d: %w", c.RecordEvery, dynamo.ErrParameterBounds)
	}
	if c.Bodies < 0 || c.Dim < 0 {
		return fmt.Errorf("bodies %d, dim %d: %w", c.Bodies, c.Dim, dynamo.ErrParameterBounds)
	}
	if c.Threshold < 0 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("threshold %g: %w", c.Threshold, dynamo.ErrParameterBounds)
	}
	if c.Scale <= 0 || math.IsNaN(c.Scale) {
		return fmt.Errorf("scale %g: %w", c.Scale, dynamo.ErrParameterBounds)
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	return nil
}
