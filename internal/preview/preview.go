// Package preview renders rosters and partitions for terminals.
package preview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/mathutil"
	"github.com/eugenenazirov/army-grid/internal/roster"
)

const (
	emptyGlyph = "·"
	itemGlyph  = "■"
	barWidth   = 40
)

var (
	colorCyan   = lipgloss.Color("36")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorDim    = lipgloss.Color("240")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleGrid  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	styleBar   = lipgloss.NewStyle().Foreground(colorCyan)

	unitStyles = map[roster.UnitType]lipgloss.Style{
		roster.Spearman:  lipgloss.NewStyle().Foreground(colorYellow),
		roster.Swordsman: lipgloss.NewStyle().Foreground(colorRed),
		roster.Archer:    lipgloss.NewStyle().Foreground(colorBlue),
	}
	unitGlyphs = map[roster.UnitType]string{
		roster.Spearman:  "S",
		roster.Swordsman: "W",
		roster.Archer:    "A",
	}
)

// Army renders the unit counts followed by the grid as it appears on screen,
// honoring the spawn directions encoded in the slot positions.
func Army(army roster.Army) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%d units on a %dx%d grid", army.Total, army.Layout.Rows, army.Layout.Columns)))
	b.WriteByte('\n')
	for _, c := range army.Counts {
		fmt.Fprintf(&b, "  %s %-9s %d\n", glyph(c.Type), c.Type, c.Count)
	}
	if army.Layout.Capacity() == 0 {
		return b.String()
	}

	cells := emptyCells(army.Layout)
	xs, ys := bounds(army.Layout)
	for _, p := range army.Placements {
		row, col := cell(p.Slot.Position, xs, ys, army.Layout.Grid)
		cells[row][col] = glyph(p.Unit.Type)
	}
	b.WriteString(renderCells(cells))
	return b.String()
}

// Layout renders a solved grid on its own, marking the filled slots.
func Layout(result layout.Result) string {
	filled := result.Filled()

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%d items on a %dx%d grid", len(filled), result.Rows, result.Columns)))
	b.WriteByte('\n')
	if result.Capacity() == 0 {
		return b.String()
	}

	cells := emptyCells(result)
	xs, ys := bounds(result)
	for _, slot := range filled {
		row, col := cell(slot.Position, xs, ys, result.Grid)
		cells[row][col] = styleBar.Render(itemGlyph)
	}
	b.WriteString(renderCells(cells))
	return b.String()
}

// Partition renders one bar per part, scaled against the largest part.
func Partition(values []int) string {
	largest := 0
	for _, v := range values {
		largest = max(largest, v)
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%d parts", len(values))))
	b.WriteByte('\n')
	for i, v := range values {
		width, err := mathutil.Normalize(float64(v), 0, barWidth, 0, float64(largest))
		if err != nil {
			width = 0
		}
		bar := strings.Repeat("█", int(math.Round(width)))
		fmt.Fprintf(&b, "  %3d %s %d\n", i, styleBar.Render(bar), v)
	}
	return b.String()
}

func glyph(t roster.UnitType) string {
	g, ok := unitGlyphs[t]
	if !ok {
		return "?"
	}
	return unitStyles[t].Render(g)
}

func emptyCells(result layout.Result) [][]string {
	cells := make([][]string, result.Rows)
	for i := range cells {
		cells[i] = make([]string, result.Columns)
		for j := range cells[i] {
			cells[i][j] = styleDim.Render(emptyGlyph)
		}
	}
	return cells
}

func renderCells(cells [][]string) string {
	lines := make([]string, len(cells))
	for i, row := range cells {
		lines[i] = strings.Join(row, " ")
	}
	return styleGrid.Render(strings.Join(lines, "\n")) + "\n"
}

// cell maps a slot position to its on-screen row and column. Screen rows grow
// downwards while positions grow upwards.
func cell(pos layout.Vec2, xs, ys [2]float64, grid layout.Grid) (row, col int) {
	return screenIndex(pos.Y, ys[1], ys[0], grid.Rows), screenIndex(pos.X, xs[0], xs[1], grid.Columns)
}

// bounds returns the [min, max] slot centers on each axis.
func bounds(result layout.Result) (xs, ys [2]float64) {
	first := result.Slots[0][0].Position
	last := result.Slots[result.Rows-1][result.Columns-1].Position
	xs = [2]float64{min(first.X, last.X), max(first.X, last.X)}
	ys = [2]float64{min(first.Y, last.Y), max(first.Y, last.Y)}
	return xs, ys
}

// screenIndex maps a slot center in [from, to] onto a cell index in [0, n).
func screenIndex(v, from, to float64, n int) int {
	idx, err := mathutil.Normalize(v, 0, float64(n-1), from, to)
	if err != nil {
		return 0
	}
	return mathutil.Clamp(int(math.Round(idx)), 0, n-1)
}
