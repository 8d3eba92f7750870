package roster

import (
	"fmt"

	"github.com/eugenenazirov/army-grid/internal/layout"
)

// UnitType is the kind of soldier a unit represents.
type UnitType int

const (
	Spearman UnitType = iota
	Swordsman
	Archer
)

var unitTypeNames = [...]string{
	Spearman:  "spearman",
	Swordsman: "swordsman",
	Archer:    "archer",
}

// UnitTypes returns every unit type in declaration order.
func UnitTypes() []UnitType {
	return []UnitType{Spearman, Swordsman, Archer}
}

func (t UnitType) String() string {
	if t < 0 || int(t) >= len(unitTypeNames) {
		return fmt.Sprintf("UnitType(%d)", int(t))
	}
	return unitTypeNames[t]
}

// MarshalText encodes the type by name.
func (t UnitType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(unitTypeNames) {
		return nil, fmt.Errorf("unknown unit type %d", int(t))
	}
	return []byte(unitTypeNames[t]), nil
}

// UnmarshalText decodes a type name produced by MarshalText.
func (t *UnitType) UnmarshalText(text []byte) error {
	for i, name := range unitTypeNames {
		if name == string(text) {
			*t = UnitType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown unit type %q", text)
}

// Unit is a single member of a roster.
type Unit struct {
	Type UnitType
}

// Count is the number of units of one type.
type Count struct {
	Type  UnitType
	Count int
}

// Roster is a total split per unit type and expanded into individual units,
// ordered by type.
type Roster struct {
	Total  int
	Counts []Count
	Units  []Unit
}

// Placement pairs a unit with the grid slot it occupies.
type Placement struct {
	Unit Unit
	Slot layout.Slot
}

// Army is a roster laid out on a grid.
type Army struct {
	Roster
	Layout     layout.Result
	Placements []Placement
	// Recomputed is false when the layout was reused from the previous spawn.
	Recomputed bool
}
