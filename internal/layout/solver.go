package layout

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/zeebo/xxh3"
)

// Solver re-solves a layout only when its inputs change, carrying the grid of
// each solve into the next one. It is safe for concurrent use.
type Solver struct {
	mu          sync.Mutex
	solved      bool
	fingerprint uint64
	last        Result
}

// NewSolver creates a Solver with no previous grid.
func NewSolver() *Solver {
	return &Solver{}
}

// Refresh returns the current layout for req and whether it was recomputed.
// req.Previous is ignored; the solver supplies its own last grid. The returned
// result is shared and must not be modified.
func (s *Solver) Refresh(req Request) (Result, bool) {
	fp := Fingerprint(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.solved && fp == s.fingerprint {
		return s.last, false
	}

	req.Previous = s.last.Grid
	s.last = Solve(req)
	s.fingerprint = fp
	s.solved = true
	return s.last, true
}

// Last returns the most recent result and whether anything was solved yet.
func (s *Solver) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.solved
}

// Fingerprint hashes every field of req except Previous.
func Fingerprint(req Request) uint64 {
	buf := make([]byte, 0, 13*8)
	for _, v := range []int{
		req.ItemCount,
		req.MinRows,
		req.MinColumns,
		req.MaxRows,
		req.MaxColumns,
		int(req.DirectionX),
		int(req.DirectionY),
	} {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	for _, f := range []float64{
		req.Area.Width,
		req.Area.Height,
		req.Item.Width,
		req.Item.Height,
		req.MarginX,
		req.MarginY,
	} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return xxh3.Hash(buf)
}
