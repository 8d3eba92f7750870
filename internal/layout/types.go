package layout

import "fmt"

// DirectionX is the horizontal order in which columns are laid out.
type DirectionX int

const (
	LeftToRight DirectionX = iota
	RightToLeft
)

// DirectionY is the vertical order in which rows are laid out.
type DirectionY int

const (
	TopToBottom DirectionY = iota
	BottomToTop
)

func (d DirectionX) String() string {
	if d == RightToLeft {
		return "right-to-left"
	}
	return "left-to-right"
}

// ParseDirectionX accepts the names produced by DirectionX.String.
func ParseDirectionX(s string) (DirectionX, error) {
	switch s {
	case "", "left-to-right":
		return LeftToRight, nil
	case "right-to-left":
		return RightToLeft, nil
	}
	return LeftToRight, fmt.Errorf("unknown horizontal direction %q", s)
}

func (d DirectionY) String() string {
	if d == BottomToTop {
		return "bottom-to-top"
	}
	return "top-to-bottom"
}

// ParseDirectionY accepts the names produced by DirectionY.String.
func ParseDirectionY(s string) (DirectionY, error) {
	switch s {
	case "", "top-to-bottom":
		return TopToBottom, nil
	case "bottom-to-top":
		return BottomToTop, nil
	}
	return TopToBottom, fmt.Errorf("unknown vertical direction %q", s)
}

// Size is a two-component extent in the spawn area's local units.
type Size struct {
	Width  float64
	Height float64
}

// Vec2 is a local position relative to the center of the spawn area.
type Vec2 struct {
	X float64
	Y float64
}

// Grid is a row/column count pair.
type Grid struct {
	Rows    int
	Columns int
}

// Capacity returns the number of slots in the grid.
func (g Grid) Capacity() int {
	return g.Rows * g.Columns
}

// Request describes one layout resolution.
//
// MinRows and MinColumns of zero leave that dimension to the aspect ratio.
// MaxRows and MaxColumns of zero mean unbounded. Previous carries the grid of
// the prior resolution and seeds the first aspect-ratio pass.
type Request struct {
	ItemCount  int
	Area       Size
	Item       Size
	MarginX    float64
	MarginY    float64
	MinRows    int
	MinColumns int
	MaxRows    int
	MaxColumns int
	DirectionX DirectionX
	DirectionY DirectionY
	Previous   Grid
}

// Slot is one cell of a solved grid. Item is -1 for empty slots.
type Slot struct {
	Row      int
	Column   int
	Item     int
	Position Vec2
}

// Empty reports whether no item was assigned to the slot.
func (s Slot) Empty() bool {
	return s.Item < 0
}

// Result is a solved grid. Slots is indexed [row][column].
type Result struct {
	Grid
	AvailableArea Size
	AspectRatio   float64
	Slots         [][]Slot
}

// Filled returns the assigned slots in row-major order.
func (r Result) Filled() []Slot {
	out := make([]Slot, 0, r.Capacity())
	for _, row := range r.Slots {
		for _, slot := range row {
			if !slot.Empty() {
				out = append(out, slot)
			}
		}
	}
	return out
}
