package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func baseRequest(items int) Request {
	return Request{
		ItemCount: items,
		Area:      Size{Width: 800, Height: 600},
		Item:      Size{Width: 50, Height: 50},
	}
}

func TestSolve_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  func() Request
		want Grid
	}{
		{
			name: "DefaultSpawnerSettings",
			req: func() Request {
				req := baseRequest(30)
				req.MarginX = 20
				return req
			},
			want: Grid{Rows: 5, Columns: 7},
		},
		{
			name: "ByColumnsRaisedToMinimum",
			req: func() Request {
				req := baseRequest(30)
				req.MinColumns = 8
				return req
			},
			want: Grid{Rows: 4, Columns: 8},
		},
		{
			name: "ByColumnsCappedAtMaximum",
			req: func() Request {
				req := baseRequest(30)
				req.MinColumns = 1
				req.MaxColumns = 4
				return req
			},
			want: Grid{Rows: 8, Columns: 4},
		},
		{
			name: "ByRowsRaisedToMinimum",
			req: func() Request {
				req := baseRequest(30)
				req.MinRows = 6
				return req
			},
			want: Grid{Rows: 6, Columns: 5},
		},
		{
			name: "ByRowsCappedAtMaximum",
			req: func() Request {
				req := baseRequest(30)
				req.MinRows = 1
				req.MaxRows = 2
				return req
			},
			want: Grid{Rows: 2, Columns: 15},
		},
		{
			name: "BothSetClampsRowsOnly",
			req: func() Request {
				req := baseRequest(30)
				req.MinRows = 10
				req.MinColumns = 3
				return req
			},
			want: Grid{Rows: 10, Columns: 7},
		},
		{
			name: "BothSetColumnsFromMinimum",
			req: func() Request {
				req := baseRequest(30)
				req.MinRows = 2
				req.MinColumns = 9
				return req
			},
			want: Grid{Rows: 4, Columns: 9},
		},
		{
			name: "RowCapWidensColumnsToFit",
			req: func() Request {
				req := baseRequest(30)
				req.MaxRows = 3
				return req
			},
			want: Grid{Rows: 3, Columns: 10},
		},
		{
			name: "SingleItemFollowsAspect",
			req: func() Request {
				return baseRequest(1)
			},
			want: Grid{Rows: 1, Columns: 2},
		},
		{
			name: "InvertedColumnBoundsMinimumWins",
			req: func() Request {
				req := baseRequest(30)
				req.MinColumns = 5
				req.MaxColumns = 3
				return req
			},
			want: Grid{Rows: 6, Columns: 5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Solve(tc.req())
			require.Equal(t, tc.want, got.Grid)
			require.GreaterOrEqual(t, got.Capacity(), tc.req().ItemCount)
			require.Len(t, got.Slots, got.Rows)
		})
	}
}

func TestSolve_AspectRatioFromPreviousGrid(t *testing.T) {
	t.Parallel()

	req := baseRequest(30)
	req.MarginX = 20

	// Without a previous grid the column count is zero and the area grows by
	// one margin.
	got := Solve(req)
	require.Equal(t, Grid{Rows: 5, Columns: 7}, got.Grid)
	require.InDelta(t, 820, got.AvailableArea.Width, 1e-9)
	require.InDelta(t, 600, got.AvailableArea.Height, 1e-9)
	require.InDelta(t, 820.0/600.0, got.AspectRatio, 1e-9)

	req.Previous = got.Grid
	again := Solve(req)
	require.Equal(t, Grid{Rows: 5, Columns: 6}, again.Grid)
	require.InDelta(t, 680, again.AvailableArea.Width, 1e-9)
	require.InDelta(t, 680.0/600.0, again.AspectRatio, 1e-9)
}

func TestSolve_UsesPreviousGrid(t *testing.T) {
	t.Parallel()

	// A tall previous grid eats the available height and flips the table to
	// a wide one.
	req := Request{
		ItemCount: 12,
		Area:      Size{Width: 400, Height: 400},
		Item:      Size{Width: 10, Height: 10},
		MarginY:   30,
		Previous:  Grid{Rows: 12, Columns: 1},
	}
	withPrevious := Solve(req)

	req.Previous = Grid{}
	fresh := Solve(req)

	require.Equal(t, Grid{Rows: 3, Columns: 4}, fresh.Grid)
	require.InDelta(t, 400.0/430.0, fresh.AspectRatio, 1e-9)

	require.Equal(t, Grid{Rows: 2, Columns: 9}, withPrevious.Grid)
	require.InDelta(t, 400.0/70.0, withPrevious.AspectRatio, 1e-9)
}

func TestSolve_Empty(t *testing.T) {
	t.Parallel()

	tests := map[string]Request{
		"NoItems":       baseRequest(0),
		"NegativeItems": baseRequest(-4),
		"ZeroWidth":     {ItemCount: 5, Area: Size{Width: 0, Height: 100}},
		"ZeroHeight":    {ItemCount: 5, Area: Size{Width: 100, Height: 0}},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			got := Solve(req)
			require.Equal(t, Grid{}, got.Grid)
			require.Empty(t, got.Slots)
			require.Empty(t, got.Filled())
		})
	}
}

func TestSolve_DegenerateAspectFallsBackToSquare(t *testing.T) {
	t.Parallel()

	req := Request{
		ItemCount: 4,
		Area:      Size{Width: 100, Height: 10},
		Item:      Size{Width: 5, Height: 5},
		MarginY:   10,
		Previous:  Grid{Rows: 5},
	}
	got := Solve(req)
	require.Equal(t, Grid{Rows: 2, Columns: 2}, got.Grid)
	require.InDelta(t, 1, got.AspectRatio, 1e-12)
}

func TestSolve_FillsRowMajor(t *testing.T) {
	t.Parallel()

	req := Request{
		ItemCount: 5,
		Area:      Size{Width: 300, Height: 200},
		Item:      Size{Width: 10, Height: 10},
	}
	got := Solve(req)
	require.Equal(t, Grid{Rows: 2, Columns: 3}, got.Grid)

	want := [][]int{{0, 1, 2}, {3, 4, -1}}
	for i, row := range got.Slots {
		for j, slot := range row {
			require.Equal(t, i, slot.Row)
			require.Equal(t, j, slot.Column)
			require.Equal(t, want[i][j], slot.Item, "slot [%d][%d]", i, j)
		}
	}
	require.True(t, got.Slots[1][2].Empty())

	filled := got.Filled()
	require.Len(t, filled, 5)
	for i, slot := range filled {
		require.Equal(t, i, slot.Item)
	}
}

func TestSolve_Positions(t *testing.T) {
	t.Parallel()

	req := Request{
		ItemCount: 4,
		Area:      Size{Width: 100, Height: 100},
		Item:      Size{Width: 10, Height: 10},
		MarginX:   2,
		MarginY:   2,
	}

	tests := []struct {
		name string
		dx   DirectionX
		dy   DirectionY
		want [2][2]Vec2
	}{
		{
			name: "LeftToRightTopToBottom",
			dx:   LeftToRight,
			dy:   TopToBottom,
			want: [2][2]Vec2{{{X: -6, Y: 6}, {X: 6, Y: 6}}, {{X: -6, Y: -6}, {X: 6, Y: -6}}},
		},
		{
			name: "RightToLeftTopToBottom",
			dx:   RightToLeft,
			dy:   TopToBottom,
			want: [2][2]Vec2{{{X: 6, Y: 6}, {X: -6, Y: 6}}, {{X: 6, Y: -6}, {X: -6, Y: -6}}},
		},
		{
			name: "LeftToRightBottomToTop",
			dx:   LeftToRight,
			dy:   BottomToTop,
			want: [2][2]Vec2{{{X: -6, Y: -6}, {X: 6, Y: -6}}, {{X: -6, Y: 6}, {X: 6, Y: 6}}},
		},
		{
			name: "RightToLeftBottomToTop",
			dx:   RightToLeft,
			dy:   BottomToTop,
			want: [2][2]Vec2{{{X: 6, Y: -6}, {X: -6, Y: -6}}, {{X: 6, Y: 6}, {X: -6, Y: 6}}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := req
			r.DirectionX = tc.dx
			r.DirectionY = tc.dy
			got := Solve(r)
			require.Equal(t, Grid{Rows: 2, Columns: 2}, got.Grid)
			for i := range 2 {
				for j := range 2 {
					pos := got.Slots[i][j].Position
					require.InDelta(t, tc.want[i][j].X, pos.X, 1e-9, "x of [%d][%d]", i, j)
					require.InDelta(t, tc.want[i][j].Y, pos.Y, 1e-9, "y of [%d][%d]", i, j)
				}
			}
		})
	}
}

func TestSolve_OddGridIsCentered(t *testing.T) {
	t.Parallel()

	req := Request{
		ItemCount: 9,
		Area:      Size{Width: 90, Height: 100},
		Item:      Size{Width: 20, Height: 30},
		MarginX:   4,
		MarginY:   6,
	}
	got := Solve(req)
	require.Equal(t, Grid{Rows: 3, Columns: 3}, got.Grid)

	center := got.Slots[1][1].Position
	require.InDelta(t, 0, center.X, 1e-9)
	require.InDelta(t, 0, center.Y, 1e-9)
	require.InDelta(t, -24, got.Slots[0][0].Position.X, 1e-9)
	require.InDelta(t, 36, got.Slots[0][0].Position.Y, 1e-9)
}

func TestSolve_CapacityCoversItems(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(3, 5))
	for range 1000 {
		req := Request{
			ItemCount:  r.IntN(200),
			Area:       Size{Width: 1 + r.Float64()*1000, Height: 1 + r.Float64()*1000},
			Item:       Size{Width: 1 + r.Float64()*50, Height: 1 + r.Float64()*50},
			MarginX:    r.Float64() * 30,
			MarginY:    r.Float64() * 30,
			MinRows:    r.IntN(4),
			MinColumns: r.IntN(4),
			MaxRows:    r.IntN(12),
			MaxColumns: r.IntN(12),
			DirectionX: DirectionX(r.IntN(2)),
			DirectionY: DirectionY(r.IntN(2)),
			Previous:   Grid{Rows: r.IntN(20), Columns: r.IntN(20)},
		}
		got := Solve(req)
		require.GreaterOrEqual(t, got.Capacity(), req.ItemCount, "request %+v", req)
		require.Len(t, got.Filled(), req.ItemCount)
	}
}

func TestDirections(t *testing.T) {
	t.Parallel()

	dx, err := ParseDirectionX(RightToLeft.String())
	require.NoError(t, err)
	require.Equal(t, RightToLeft, dx)

	dy, err := ParseDirectionY(BottomToTop.String())
	require.NoError(t, err)
	require.Equal(t, BottomToTop, dy)

	dx, err = ParseDirectionX("")
	require.NoError(t, err)
	require.Equal(t, LeftToRight, dx)

	_, err = ParseDirectionX("diagonal")
	require.Error(t, err)
	_, err = ParseDirectionY("sideways")
	require.Error(t, err)
}
