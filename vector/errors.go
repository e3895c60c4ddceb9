package vector

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when a value of the wrong length is
// assigned to a signal vector. Two connected systems disagreeing on the width
// of a signal is a wiring error, retrying will not help.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// DimensionError describes a rejected assignment.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector: dimension mismatch: want length %d, got %d", e.Want, e.Got)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold for every DimensionError.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
