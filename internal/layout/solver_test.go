package layout

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverRefresh(t *testing.T) {
	t.Parallel()

	solver := NewSolver()
	_, ok := solver.Last()
	require.False(t, ok)

	req := baseRequest(30)
	req.MarginX = 20

	first, changed := solver.Refresh(req)
	require.True(t, changed)
	require.Equal(t, Solve(req), first)

	again, changed := solver.Refresh(req)
	require.False(t, changed)
	require.Equal(t, first.Grid, again.Grid)

	req.ItemCount = 12
	next, changed := solver.Refresh(req)
	require.True(t, changed)

	carried := req
	carried.Previous = first.Grid
	require.Equal(t, Solve(carried), next)

	last, ok := solver.Last()
	require.True(t, ok)
	require.Equal(t, next.Grid, last.Grid)
}

func TestSolverRefinesOnNextRefresh(t *testing.T) {
	t.Parallel()

	solver := NewSolver()
	req := baseRequest(30)
	req.MarginX = 20

	// Each recompute measures the area with the grid of the one before it.
	steps := []struct {
		items int
		want  Grid
	}{
		{items: 30, want: Grid{Rows: 5, Columns: 7}},
		{items: 31, want: Grid{Rows: 6, Columns: 6}},
		{items: 30, want: Grid{Rows: 5, Columns: 6}},
	}
	for _, step := range steps {
		req.ItemCount = step.items
		got, changed := solver.Refresh(req)
		require.True(t, changed)
		require.Equal(t, step.want, got.Grid, "items %d", step.items)
	}
}

func TestSolverIgnoresCallerPrevious(t *testing.T) {
	t.Parallel()

	solver := NewSolver()
	req := baseRequest(10)
	_, changed := solver.Refresh(req)
	require.True(t, changed)

	req.Previous = Grid{Rows: 40, Columns: 2}
	_, changed = solver.Refresh(req)
	require.False(t, changed)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := baseRequest(30)
	b := a
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Previous = Grid{Rows: 3, Columns: 3}
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	mutations := map[string]func(*Request){
		"ItemCount":  func(r *Request) { r.ItemCount++ },
		"AreaWidth":  func(r *Request) { r.Area.Width++ },
		"ItemHeight": func(r *Request) { r.Item.Height++ },
		"MarginX":    func(r *Request) { r.MarginX = 0.5 },
		"MarginY":    func(r *Request) { r.MarginY = 0.5 },
		"MinRows":    func(r *Request) { r.MinRows = 2 },
		"MaxColumns": func(r *Request) { r.MaxColumns = 9 },
		"DirectionX": func(r *Request) { r.DirectionX = RightToLeft },
		"DirectionY": func(r *Request) { r.DirectionY = BottomToTop },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := a
			mutate(&c)
			require.NotEqual(t, Fingerprint(a), Fingerprint(c))
		})
	}
}

func TestSolverConcurrentRefresh(t *testing.T) {
	solver := NewSolver()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(items int) {
			defer wg.Done()
			got, _ := solver.Refresh(baseRequest(items))
			assert.GreaterOrEqual(t, got.Capacity(), items)
		}(i + 1)
	}
	wg.Wait()
}
