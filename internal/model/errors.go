package model

import "fmt"

// ValidationError reports malformed or out-of-domain input (draw events,
// timestep width, series shape). It is raised before any simulation work.
type ValidationError struct {
	Field string
	// Index is the offending event or step, or -1 when not applicable.
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("validation: %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports an invalid ParameterSet or COP setup.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// ComputationError aborts a forward pass at the step where a numeric
// failure occurred. The pass returns no partial results.
type ComputationError struct {
	Index           int
	Time            float64 // minutes
	TankTemperature float64 // °F
	COP             float64
	Reason          string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: step %d (t=%.3f min, tank=%.3f F, cop=%g): %s",
		e.Index, e.Time, e.TankTemperature, e.COP, e.Reason)
}

func invalidf(field string, index int, format string, args ...any) error {
	return &ValidationError{Field: field, Index: index, Reason: fmt.Sprintf(format, args...)}
}

func misconfigf(field string, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
