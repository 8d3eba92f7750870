package partition

import "errors"

var (
	// ErrInvalidArgument is returned when sum or count are not positive, or the bounds are inverted.
	ErrInvalidArgument = errors.New("invalid partition argument")
	// ErrInfeasible is returned when the sum cannot be reached within the given bounds.
	ErrInfeasible = errors.New("sum cannot be reached within the given bounds")
)
