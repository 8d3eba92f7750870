// Package layout solves the row/column split of an item grid for a given area
// and computes every slot's position around the area's center.
package layout

import (
	"math"

	"github.com/eugenenazirov/army-grid/internal/mathutil"
)

// Solve computes the grid for req. It never fails: no items or a
// non-positive area produce an empty result.
//
// The table is computed once, against the area left over by req.Previous.
// Carrying each result into the next request as Previous refines the grid
// over successive solves.
func Solve(req Request) Result {
	req = sanitize(req)
	if req.ItemCount == 0 || req.Area.Width <= 0 || req.Area.Height <= 0 {
		return Result{}
	}

	area := availableArea(req, req.Previous)
	ratio := aspectRatio(area)
	grid := computeTable(req, ratio)

	slots := fill(req.ItemCount, grid)
	position(req, grid, slots)

	return Result{
		Grid:          grid,
		AvailableArea: area,
		AspectRatio:   ratio,
		Slots:         slots,
	}
}

func sanitize(req Request) Request {
	req.ItemCount = max(req.ItemCount, 0)
	req.MinRows = max(req.MinRows, 0)
	req.MinColumns = max(req.MinColumns, 0)
	if req.MaxRows <= 0 {
		req.MaxRows = math.MaxInt
	}
	if req.MaxColumns <= 0 {
		req.MaxColumns = math.MaxInt
	}
	req.Previous.Rows = max(req.Previous.Rows, 0)
	req.Previous.Columns = max(req.Previous.Columns, 0)
	return req
}

// availableArea subtracts the margins between grid cells from the area. A
// zero grid yields a negative margin count, so the area grows by one margin.
func availableArea(req Request, grid Grid) Size {
	return Size{
		Width:  req.Area.Width - float64(grid.Columns-1)*req.MarginX,
		Height: req.Area.Height - float64(grid.Rows-1)*req.MarginY,
	}
}

func aspectRatio(area Size) float64 {
	ratio := area.Width / area.Height
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return 1
	}
	return ratio
}

func computeTable(req Request, ratio float64) Grid {
	switch {
	case req.MinColumns > 0 && req.MinRows == 0:
		return tableByColumns(req, ratio)
	case req.MinRows > 0 && req.MinColumns == 0:
		return tableByRows(req, ratio)
	default:
		grid := tableByColumns(req, ratio)
		grid.Rows = mathutil.Clamp(grid.Rows, req.MinRows, req.MaxRows)
		if grid.Capacity() < req.ItemCount {
			grid.Columns = ceilDiv(req.ItemCount, grid.Rows)
		}
		return grid
	}
}

func tableByColumns(req Request, ratio float64) Grid {
	columns := int(math.Ceil(math.Sqrt(ratio * float64(req.ItemCount))))
	columns = max(mathutil.Clamp(columns, req.MinColumns, req.MaxColumns), 1)
	return Grid{Rows: ceilDiv(req.ItemCount, columns), Columns: columns}
}

func tableByRows(req Request, ratio float64) Grid {
	rows := int(math.Ceil(math.Sqrt(1 / ratio * float64(req.ItemCount))))
	rows = max(mathutil.Clamp(rows, req.MinRows, req.MaxRows), 1)
	return Grid{Rows: rows, Columns: ceilDiv(req.ItemCount, rows)}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func fill(itemCount int, grid Grid) [][]Slot {
	slots := make([][]Slot, grid.Rows)
	assigned := 0
	for i := range slots {
		slots[i] = make([]Slot, grid.Columns)
		for j := range slots[i] {
			item := -1
			if assigned < itemCount {
				item = assigned
				assigned++
			}
			slots[i][j] = Slot{Row: i, Column: j, Item: item}
		}
	}
	return slots
}

// position centers the grid on the origin. The half-margin terms cancel the
// extra margin counted by rows/2 and columns/2.
func position(req Request, grid Grid, slots [][]Slot) {
	rows := float64(grid.Rows)
	columns := float64(grid.Columns)
	w, h := req.Item.Width, req.Item.Height

	startY := -h/2 + rows/2*h + rows/2*req.MarginY - 0.5*req.MarginY
	stepY := -(h + req.MarginY)
	if req.DirectionY == BottomToTop {
		startY, stepY = -startY, -stepY
	}

	startX := w/2 - columns/2*w - columns/2*req.MarginX + 0.5*req.MarginX
	stepX := w + req.MarginX
	if req.DirectionX == RightToLeft {
		startX, stepX = -startX, -stepX
	}

	for i := range slots {
		y := startY + float64(i)*stepY
		for j := range slots[i] {
			slots[i][j].Position = Vec2{X: startX + float64(j)*stepX, Y: y}
		}
	}
}
