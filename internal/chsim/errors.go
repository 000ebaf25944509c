package chsim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParams indicates a parameter set rejected at construction.
	ErrInvalidParams = errors.New("chsim: invalid parameters")

	// ErrDiverged indicates the explicit scheme went unstable and the field
	// holds NaN or Inf values.
	ErrDiverged = errors.New("chsim: field diverged (NaN or Inf detected)")
)

// StepError wraps an error with the step at which it occurred. The last
// valid snapshot has already been emitted by the time a StepError surfaces.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
