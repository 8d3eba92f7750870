// Package mathutil holds the scalar helpers shared by the partition generator
// and the layout solver.
package mathutil

import (
	"cmp"
	"errors"
)

// ErrZeroRange is returned by Normalize when the source range is empty.
var ErrZeroRange = errors.New("original range must not be empty")

// Clamp restricts value to [minValue, maxValue]. When minValue > maxValue the
// lower bound wins.
func Clamp[T cmp.Ordered](value, minValue, maxValue T) T {
	return max(min(maxValue, value), minValue)
}

// Normalize linearly remaps value from [originalStart, originalEnd] onto
// [newStart, newEnd]. Values outside the original range are extrapolated.
func Normalize(value, newStart, newEnd, originalStart, originalEnd float64) (float64, error) {
	if originalEnd == originalStart {
		return 0, ErrZeroRange
	}
	scale := (newEnd - newStart) / (originalEnd - originalStart)
	return newStart + (value-originalStart)*scale, nil
}
