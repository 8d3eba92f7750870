package roster

import "errors"

// ErrTooManyUnits is returned when the requested total exceeds the builder's limit.
var ErrTooManyUnits = errors.New("requested roster exceeds the unit limit")
