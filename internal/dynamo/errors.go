package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates vectors of different dimension were combined.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrUnknownIntegrator indicates an integrator name with no registered implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownScenario indicates a scenario name with no built-in initial conditions.
	ErrUnknownScenario = errors.New("dynamo: unknown scenario")
)

// ConfigError reports a particle that cannot be part of a system.
type ConfigError struct {
	Index   int
	Detail  string
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("particle %d: %s: %v", e.Index, e.Detail, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// SimError is raised by a driver that notices a problem between steps.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
