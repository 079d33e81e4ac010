package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-bounds input. It aborts the run
// before any routing work starts.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %q: %s", e.Field, e.Value, e.Reason)
}

// RoutingServiceError reports a distance backend request that stayed unusable
// after the matrix -> point-query -> last-known-value fallback chain.
type RoutingServiceError struct {
	Op        string
	FromIndex int
	ToIndex   int
	Err       error
}

func (e *RoutingServiceError) Error() string {
	return fmt.Sprintf("routing service: %s from=%d to=%d: %v", e.Op, e.FromIndex, e.ToIndex, e.Err)
}

func (e *RoutingServiceError) Unwrap() error { return e.Err }

// OptimizationError reports an internal-consistency failure of the greedy
// construction: no candidate could be selected even though unvisited points
// remain. Not user-recoverable.
type OptimizationError struct {
	Visited int
	Total   int
	Reason  string
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("optimization: %s (visited %d of %d)", e.Reason, e.Visited, e.Total)
}

// ErrSolverUnavailable marks an exact-solver failure on the validation path.
// It degrades the comparison report ("N/A" baselines) without aborting the run.
var ErrSolverUnavailable = errors.New("exact solver unavailable")
