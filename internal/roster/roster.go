// Package roster turns a desired unit total into typed units and binds them to
// the slots of a solved grid.
package roster

import (
	"fmt"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/partition"
)

// Builder splits totals across all unit types.
type Builder struct {
	partitioner partition.Partitioner
	maxUnits    int
}

// NewBuilder creates a Builder. maxUnits <= 0 disables the size limit.
func NewBuilder(p partition.Partitioner, maxUnits int) *Builder {
	if p == nil {
		p = partition.New(nil)
	}
	return &Builder{partitioner: p, maxUnits: maxUnits}
}

// Build partitions total so that every unit type gets at least one unit. A
// positive total below the number of unit types is raised to that number, so
// the roster may hold more units than requested.
func (b *Builder) Build(total int) (Roster, error) {
	types := UnitTypes()
	if total > 0 && total < len(types) {
		total = len(types)
	}
	if b.maxUnits > 0 && total > b.maxUnits {
		return Roster{}, fmt.Errorf("%w: %d > %d", ErrTooManyUnits, total, b.maxUnits)
	}

	counts, err := b.partitioner.Generate(total, len(types), 1, total)
	if err != nil {
		return Roster{}, fmt.Errorf("split %d units: %w", total, err)
	}

	r := Roster{
		Total:  total,
		Counts: make([]Count, len(types)),
		Units:  make([]Unit, 0, total),
	}
	for i, unitType := range types {
		r.Counts[i] = Count{Type: unitType, Count: counts[i]}
		for range counts[i] {
			r.Units = append(r.Units, Unit{Type: unitType})
		}
	}
	return r, nil
}

// Bind assigns units to slots in row-major order. Empty slots are skipped and
// surplus units, if any, are left unplaced.
func Bind(units []Unit, result layout.Result) []Placement {
	placements := make([]Placement, 0, min(len(units), result.Capacity()))
	next := 0
	for _, row := range result.Slots {
		for _, slot := range row {
			if next >= len(units) {
				return placements
			}
			if slot.Empty() {
				continue
			}
			placements = append(placements, Placement{Unit: units[next], Slot: slot})
			next++
		}
	}
	return placements
}

// Spawner lays out successive rosters on one spawn area, re-solving the grid
// only when the roster size or the area settings change.
type Spawner struct {
	solver *layout.Solver
}

// NewSpawner creates a Spawner with a fresh layout solver.
func NewSpawner() *Spawner {
	return &Spawner{solver: layout.NewSolver()}
}

// Spawn lays out r using template for everything but the item count.
func (s *Spawner) Spawn(r Roster, template layout.Request) Army {
	template.ItemCount = len(r.Units)
	result, changed := s.solver.Refresh(template)
	return Army{
		Roster:     r,
		Layout:     result,
		Placements: Bind(r.Units, result),
		Recomputed: changed,
	}
}
