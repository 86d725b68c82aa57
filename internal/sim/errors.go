package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParams indicates a parameter set rejected before integration.
	ErrInvalidParams = errors.New("sim: invalid parameter set")

	// ErrEmptyPopulation indicates a sub-population total that is not positive.
	ErrEmptyPopulation = errors.New("sim: sub-population total must be positive")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and system")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrBoundsViolation indicates a compartment left [0, population] bounds.
	ErrBoundsViolation = errors.New("sim: state outside physical bounds")

	// ErrConservationDrift indicates a conserved total drifted beyond tolerance.
	ErrConservationDrift = errors.New("sim: conserved total drifted beyond tolerance")
)

// IsDomainError reports whether err was raised by pre-integration
// validation, as opposed to numerical failure during integration.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidParams) ||
		errors.Is(err, ErrEmptyPopulation) ||
		errors.Is(err, ErrDimensionMismatch)
}

// RunError wraps an error with the output sample where it occurred.
type RunError struct {
	Sample  int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("sample %d (t=%.4f): %v", e.Sample, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
