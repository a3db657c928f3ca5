package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mazeroute/internal/mazetest"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

func pt(r, c int) grid.Point { return grid.Point{Row: r, Col: c} }

func solved(t *testing.T, m *grid.Grid, opts ...graph.Option) (*graph.Graph, *search.Result) {
	t.Helper()
	g, err := graph.Build(m, opts...)
	require.NoError(t, err)
	res, err := search.Search(g, g.Entrance)
	require.NoError(t, err)
	return g, res
}

func TestReconstruct_RightAngle(t *testing.T) {
	g, _ := solved(t, mazetest.MustParse(mazetest.RightAngle))

	r, err := route.Reconstruct(g, g.Exit)
	require.NoError(t, err)

	assert.Equal(t, []grid.Point{
		pt(0, 1), pt(1, 1), pt(2, 1), pt(2, 2), pt(2, 3), pt(3, 3), pt(4, 3),
	}, r.Cells)
	require.Len(t, r.Nodes, 4)
	assert.Equal(t, g.Entrance, r.Nodes[0])
	assert.Equal(t, g.Exit, r.Nodes[3])
	assert.Equal(t, 6, r.Len())
	assert.Equal(t, []grid.Point{pt(2, 1), pt(2, 3)}, r.Turns())
}

func TestReconstruct_FromExitAdjacent(t *testing.T) {
	g, res := solved(t, mazetest.MustParse(mazetest.RightAngle))

	r, err := route.Reconstruct(g, res.ExitAdjacent)
	require.NoError(t, err)
	assert.Equal(t, pt(2, 3), r.Cells[len(r.Cells)-1])
	assert.Equal(t, 4, r.Len())
}

func TestReconstruct_Corridor(t *testing.T) {
	g, _ := solved(t, mazetest.MustParse(mazetest.Corridor))

	r, err := route.Reconstruct(g, g.Exit)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{g.Entrance, g.Exit}, r.Nodes)
	assert.Equal(t, 4, r.Len())
	assert.Empty(t, r.Turns())
}

func TestReconstruct_Malformed(t *testing.T) {
	t.Run("Diagonal", func(t *testing.T) {
		g, _ := solved(t, mazetest.MustParse(mazetest.RightAngle))
		corner, _ := g.Lookup(pt(2, 1))
		g.Node(g.Exit).Predecessor = corner

		_, err := route.Reconstruct(g, g.Exit)
		assert.True(t, errs.Is(err, errs.ErrCodeMalformedPath), "got %v", err)
	})

	t.Run("Loop", func(t *testing.T) {
		g, res := solved(t, mazetest.MustParse(mazetest.RightAngle))
		corner, _ := g.Lookup(pt(2, 1))
		g.Node(g.Entrance).Predecessor = res.ExitAdjacent
		g.Node(corner).Predecessor = g.Entrance

		_, err := route.Reconstruct(g, g.Exit)
		assert.True(t, errs.Is(err, errs.ErrCodeMalformedPath), "got %v", err)
	})

	t.Run("UnknownNode", func(t *testing.T) {
		g, _ := solved(t, mazetest.MustParse(mazetest.RightAngle))
		_, err := route.Reconstruct(g, graph.NoNode)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
	})
}

func TestRasterize_Idempotent(t *testing.T) {
	g, _ := solved(t, mazetest.MustParse(mazetest.RightAngle))
	r, err := route.Reconstruct(g, g.Exit)
	require.NoError(t, err)

	o := grid.NewOverlay(g.Grid())
	assert.Equal(t, 7, route.Rasterize(o, r.Cells))
	assert.Equal(t, 0, route.Rasterize(o, r.Cells))
	assert.Equal(t, "#*###\n#*###\n#***#\n###*#\n###*#\n", o.String())

	nodes := g.Overlay().Clone()
	assert.Equal(t, 3, route.Rasterize(nodes, r.Cells), "node cells are already marked")
	assert.Equal(t, 4, g.Overlay().Count(), "the graph's overlay is untouched")
}

func TestReconstruct_RandomMazes(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		m := mazetest.Random(seed, 8, 10, 0.2)
		g, res := solved(t, m, graph.WithEntranceWeight(graph.EntranceMeasured))

		r, err := route.Reconstruct(g, g.Exit)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, res.Length, r.Len(), "seed %d", seed)
		assert.Equal(t, g.Node(g.Entrance).Pos, r.Cells[0])
		assert.Equal(t, g.Node(g.Exit).Pos, r.Cells[len(r.Cells)-1])

		for i, p := range r.Cells {
			assert.Equal(t, grid.Open, m.At(p), "seed %d: %s is a wall", seed, p)
			if i == 0 {
				continue
			}
			q := r.Cells[i-1]
			d := abs(p.Row-q.Row) + abs(p.Col-q.Col)
			assert.Equal(t, 1, d, "seed %d: %s -> %s is not a single step", seed, q, p)
		}
	}
}

func TestSegment(t *testing.T) {
	seg, err := route.Segment(pt(3, 5), pt(3, 2))
	require.NoError(t, err)
	assert.Equal(t, []grid.Point{pt(3, 4), pt(3, 3), pt(3, 2)}, seg)

	seg, err = route.Segment(pt(1, 1), pt(1, 1))
	require.NoError(t, err)
	assert.Empty(t, seg)

	_, err = route.Segment(pt(0, 0), pt(1, 1))
	assert.True(t, errs.Is(err, errs.ErrCodeMalformedPath))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
