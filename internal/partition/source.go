package partition

import "math/rand/v2"

// NewSource returns a deterministic PCG-backed source. The returned source is
// not safe for concurrent use; give each goroutine its own.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalSource draws from the runtime's shared generator, which is safe for
// concurrent use and randomly seeded at startup.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// randomRange draws from the half-open range [lo, hi). An empty range yields lo.
func randomRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo)
}
