package ballistics

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and solver operations.
var (
	// ErrInvalidParameter indicates a non-positive step, precision or cap, or a negative speed.
	ErrInvalidParameter = errors.New("ballistics: invalid parameter")

	// ErrNonConvergent indicates a search or trajectory walk hit its iteration cap.
	ErrNonConvergent = errors.New("ballistics: iteration limit exceeded")

	// ErrInfeasible indicates the target cannot be reached.
	ErrInfeasible = errors.New("ballistics: target unreachable")

	// ErrBelowTarget indicates the projectile starts below the target height.
	ErrBelowTarget = errors.New("ballistics: start below target height")
)

// SolveError wraps an error with search context.
type SolveError struct {
	Op         string
	Iterations int
	Wrapped    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s after %d iterations: %v", e.Op, e.Iterations, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
