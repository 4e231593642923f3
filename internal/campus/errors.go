// v0
// internal/campus/errors.go
package campus

import "fmt"

// ConfigurationError rejects an analysis request before any evaluation
// begins: invalid topology or an override referencing a room outside it.
// It is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// InvariantViolation signals that a parent aggregate does not equal the fold
// of its children. It is a programming-error class: the run aborts with full
// context instead of returning skewed totals.
type InvariantViolation struct {
	Stage  string
	Entity string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("aggregation invariant violated at %s (%s): %s", e.Stage, e.Entity, e.Detail)
}
