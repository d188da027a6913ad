package sim

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrInvalidState  = errors.New("sim: invalid state (NaN or Inf detected)")
	ErrDimension     = errors.New("sim: dimension mismatch between state and system")
)

// SimError records where in a run a failure happened.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return ErrInvalidState }
