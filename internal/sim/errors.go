package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidState indicates a vehicle state went NaN or Inf during a run.
var ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

// CycleError wraps a planning failure with the cycle it occurred in. A
// CycleError aborts the run: the planner must not silently substitute an
// unsafe trajectory.
type CycleError struct {
	Cycle int
	Time  float64
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle %d (t=%.2fs): %v", e.Cycle, e.Time, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
