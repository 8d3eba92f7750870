package partition

// Partitioner describes the behaviour required from a partition generator.
type Partitioner interface {
	Generate(sum, count, lowerBound, upperBound int) ([]int, error)
}

// Source is the randomness provider consumed by the generator.
type Source interface {
	// IntN returns a non-negative random int in [0, n). n is always > 0.
	IntN(n int) int
}
