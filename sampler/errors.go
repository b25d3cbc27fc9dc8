package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateRange is matched by every *DegenerateRangeError.
	ErrDegenerateRange = errors.New("sampler: degenerate range")

	// ErrMissingFunction is returned when a required evaluator is nil.
	ErrMissingFunction = errors.New("sampler: missing function")

	// ErrLayout is returned by Samples.Validate when buffer lengths do not
	// match the grid dimensions.
	ErrLayout = errors.New("sampler: buffer does not match grid")
)

// DegenerateRangeError rejects a sampling request before any evaluation.
type DegenerateRangeError struct {
	Param  string
	Reason string
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("sampler: degenerate %s: %s", e.Param, e.Reason)
}

func (e *DegenerateRangeError) Is(target error) bool {
	return target == ErrDegenerateRange
}
