package heightmap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a configuration value that fails a precondition.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyInput reports that no points were supplied.
	ErrEmptyInput = errors.New("empty input: no points supplied")

	// ErrDegenerateInput reports a point set with zero extent along X or Z.
	ErrDegenerateInput = errors.New("degenerate input: zero horizontal extent")
)

// DegenerateInputError carries the axis on which the point set collapsed.
// It matches ErrDegenerateInput under errors.Is.
type DegenerateInputError struct {
	Axis   string  // "x" or "z"
	Value  float64 // the shared coordinate
	Points int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: all %d points share %s=%g", e.Points, e.Axis, e.Value)
}

func (e *DegenerateInputError) Unwrap() error {
	return ErrDegenerateInput
}

func validateSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %d", ErrInvalidArgument, size)
	}
	return nil
}

// ValidateLookAround checks that n is a usable look-around matrix width.
func ValidateLookAround(n int) error {
	if n <= 0 || n%2 != 0 {
		return fmt.Errorf("%w: look-around matrix size must be a positive even number, got %d", ErrInvalidArgument, n)
	}
	return nil
}
