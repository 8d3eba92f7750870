package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/army-grid/internal/layout"
	"github.com/eugenenazirov/army-grid/internal/roster"
)

func spawn(t *testing.T, dx layout.DirectionX, dy layout.DirectionY, units ...roster.UnitType) roster.Army {
	t.Helper()

	r := roster.Roster{Total: len(units)}
	for _, u := range units {
		r.Units = append(r.Units, roster.Unit{Type: u})
	}
	return roster.NewSpawner().Spawn(r, layout.Request{
		Area:       layout.Size{Width: 300, Height: 200},
		Item:       layout.Size{Width: 10, Height: 10},
		DirectionX: dx,
		DirectionY: dy,
	})
}

func gridLines(t *testing.T, out string) []string {
	t.Helper()

	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.ContainsAny(line, "SWA"+emptyGlyph+itemGlyph) && strings.Contains(line, "│") {
			fields := strings.Trim(line, "│ ")
			lines = append(lines, strings.Join(strings.Fields(fields), ""))
		}
	}
	return lines
}

func TestArmyRendersRowMajor(t *testing.T) {
	t.Parallel()

	army := spawn(t, layout.LeftToRight, layout.TopToBottom,
		roster.Spearman, roster.Spearman, roster.Swordsman, roster.Archer, roster.Archer)
	out := Army(army)

	require.Contains(t, out, "5 units on a 2x3 grid")
	require.Equal(t, []string{"SSW", "AA" + emptyGlyph}, gridLines(t, out))
}

func TestArmyHonorsDirections(t *testing.T) {
	t.Parallel()

	army := spawn(t, layout.RightToLeft, layout.BottomToTop,
		roster.Spearman, roster.Spearman, roster.Swordsman, roster.Archer, roster.Archer)

	require.Equal(t, []string{emptyGlyph + "AA", "WSS"}, gridLines(t, Army(army)))
}

func TestArmyEmpty(t *testing.T) {
	t.Parallel()

	out := Army(roster.Army{})
	require.Contains(t, out, "0 units on a 0x0 grid")
}

func TestLayoutMarksFilledSlots(t *testing.T) {
	t.Parallel()

	result := layout.Solve(layout.Request{
		ItemCount:  5,
		Area:       layout.Size{Width: 300, Height: 200},
		Item:       layout.Size{Width: 10, Height: 10},
		DirectionY: layout.BottomToTop,
	})
	out := Layout(result)

	require.Contains(t, out, "5 items on a 2x3 grid")
	require.Equal(t, []string{itemGlyph + itemGlyph + emptyGlyph, strings.Repeat(itemGlyph, 3)}, gridLines(t, out))
	require.Contains(t, Layout(layout.Result{}), "0 items on a 0x0 grid")
}

func TestPartitionBars(t *testing.T) {
	t.Parallel()

	out := Partition([]int{10, 5, 0})
	require.Contains(t, out, "3 parts")
	require.Contains(t, out, strings.Repeat("█", barWidth))
	require.Contains(t, out, strings.Repeat("█", barWidth/2)+" 5")

	// All-zero parts have no scale and render without bars.
	require.NotContains(t, Partition([]int{0, 0}), "█")
}
