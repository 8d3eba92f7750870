// Package partition splits a positive sum into a fixed number of bounded,
// randomly sized integer parts.
package partition

import (
	"fmt"
	"math"

	"github.com/eugenenazirov/army-grid/internal/mathutil"
)

type randomPartitioner struct {
	src Source
}

var defaultPartitioner = New(nil)

// New creates a Partitioner drawing from src. A nil src uses the process-wide
// random generator.
func New(src Source) Partitioner {
	if src == nil {
		src = globalSource{}
	}
	return &randomPartitioner{src: src}
}

// Generate splits sum using the process-wide random generator.
func Generate(sum, count, lowerBound, upperBound int) ([]int, error) {
	return defaultPartitioner.Generate(sum, count, lowerBound, upperBound)
}

// Generate returns count integers in [lowerBound, upperBound] adding up to sum.
//
// Raw values are drawn from the half-open range [lowerBound, upperBound), so
// upperBound is only ever reached through rescaling or deficit correction.
func (p *randomPartitioner) Generate(sum, count, lowerBound, upperBound int) ([]int, error) {
	if err := validate(sum, count, lowerBound, upperBound); err != nil {
		return nil, err
	}

	values := make([]int, count)
	rawSum := 0.0
	for i := range values {
		values[i] = randomRange(p.src, lowerBound, upperBound)
		rawSum += float64(values[i])
	}

	// The deficit is taken off sum part by part; a running total of the
	// parts could overflow near math.MaxInt.
	deficit := sum
	if rawSum > 0 {
		scale := float64(sum) / rawSum
		for i, raw := range values {
			values[i] = scaleValue(raw, scale, lowerBound, upperBound)
			deficit -= values[i]
		}
	} else {
		for i := range values {
			values[i] = lowerBound
			deficit -= lowerBound
		}
	}

	if err := settle(p.src, values, deficit, lowerBound, upperBound); err != nil {
		return nil, err
	}
	return values, nil
}

// scaleValue truncates raw*scale and clamps it into the bounds. The product
// is clamped as a float first: converting a float beyond the int range is
// implementation-defined.
func scaleValue(raw int, scale float64, lowerBound, upperBound int) int {
	v := math.Trunc(float64(raw) * scale)
	switch {
	case v >= float64(upperBound):
		return upperBound
	case v <= float64(lowerBound):
		return lowerBound
	}
	return mathutil.Clamp(int(v), lowerBound, upperBound)
}

func validate(sum, count, lowerBound, upperBound int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be greater than 0, got %d", ErrInvalidArgument, count)
	}
	if sum <= 0 {
		return fmt.Errorf("%w: sum must be greater than 0, got %d", ErrInvalidArgument, sum)
	}
	if lowerBound > upperBound {
		return fmt.Errorf("%w: lower bound %d exceeds upper bound %d", ErrInvalidArgument, lowerBound, upperBound)
	}

	// count*bound can overflow, so compare against sum/count instead.
	floor := sum / count
	ceil := floor
	if sum%count != 0 {
		ceil++
	}
	if lowerBound > floor {
		return fmt.Errorf("%w: %d parts of at least %d exceed sum %d", ErrInfeasible, count, lowerBound, sum)
	}
	if upperBound < ceil {
		return fmt.Errorf("%w: %d parts of at most %d fall short of sum %d", ErrInfeasible, count, upperBound, sum)
	}
	return nil
}

// settle moves values towards the target. A positive deficit increments
// random entries still below upperBound; a negative one decrements random
// entries still above lowerBound. Each pick moves by deficit/len(eligible),
// at least one unit and never past the bound, so large deficits settle in a
// number of steps proportional to the part count instead of the deficit.
func settle(src Source, values []int, deficit, lowerBound, upperBound int) error {
	if deficit == 0 {
		return nil
	}

	step, limit := 1, upperBound
	if deficit < 0 {
		step, limit, deficit = -1, lowerBound, -deficit
	}

	eligible := make([]int, 0, len(values))
	for i, v := range values {
		if v != limit {
			eligible = append(eligible, i)
		}
	}

	for deficit > 0 {
		if len(eligible) == 0 {
			return fmt.Errorf("%w: %d units left to distribute", ErrInfeasible, deficit)
		}
		pick := src.IntN(len(eligible))
		idx := eligible[pick]

		room := (limit - values[idx]) * step
		amount := min(deficit, room, max(1, deficit/len(eligible)))
		values[idx] += step * amount
		deficit -= amount

		if values[idx] == limit {
			last := len(eligible) - 1
			eligible[pick] = eligible[last]
			eligible = eligible[:last]
		}
	}
	return nil
}
