package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mazeroute/internal/mazetest"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	"github.com/matzehuels/mazeroute/pkg/search"
)

func build(t *testing.T, maze string, opts ...graph.Option) *graph.Graph {
	t.Helper()
	g, err := graph.Build(mazetest.MustParse(maze), opts...)
	require.NoError(t, err)
	return g
}

func TestSearch_RightAngle(t *testing.T) {
	for _, s := range search.Strategies {
		t.Run(string(s), func(t *testing.T) {
			g := build(t, mazetest.RightAngle)
			res, err := search.Search(g, g.Entrance, search.WithFrontier(s))
			require.NoError(t, err)

			corner, _ := g.Lookup(grid.Point{Row: 2, Col: 3})
			assert.Equal(t, corner, res.ExitAdjacent)
			assert.Equal(t, 3, res.Distance)
			assert.Equal(t, 5, res.Length)
			assert.Equal(t, s, res.Frontier)
			assert.Equal(t, 2, res.Expanded)
			assert.Equal(t, 3, res.Visited)
			assert.Equal(t, corner, g.Node(g.Exit).Predecessor)
			assert.Equal(t, 5, g.Node(g.Exit).Distance)
		})
	}
}

func TestSearch_RightAngleMeasured(t *testing.T) {
	g := build(t, mazetest.RightAngle, graph.WithEntranceWeight(graph.EntranceMeasured))
	res, err := search.Search(g, g.Entrance)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Distance)
	assert.Equal(t, 6, res.Length, "4 vertical plus 2 horizontal steps")
}

// An all-open grid with one gapped wall column takes its first two open
// border cells as entrance and exit, and those are neighbours in row 0.
func TestSearch_OpenGridWithGappedWall(t *testing.T) {
	const maze = `
..#..
..#..
.....
..#..
..#..
`
	g := build(t, maze)
	assert.Equal(t, grid.Point{Row: 0, Col: 0}, g.Node(g.Entrance).Pos)
	assert.Equal(t, grid.Point{Row: 0, Col: 1}, g.Node(g.Exit).Pos)

	res, err := search.Search(g, g.Entrance)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Length)
}

func TestSearch_Corridor(t *testing.T) {
	g := build(t, mazetest.Corridor)
	res, err := search.Search(g, g.Entrance)
	require.NoError(t, err)

	assert.Equal(t, g.Entrance, res.ExitAdjacent)
	assert.Equal(t, 0, res.Distance)
	assert.Equal(t, 4, res.Length)
	assert.Equal(t, 0, res.Expanded)
	assert.Equal(t, g.Entrance, g.Node(g.Exit).Predecessor)
}

func TestSearch_NoPath(t *testing.T) {
	for _, s := range search.Strategies {
		g := build(t, mazetest.Blocked)
		_, err := search.Search(g, g.Entrance, search.WithFrontier(s))
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCodeNoPathExists), "%s: got %v", s, err)
		assert.Equal(t, graph.NoNode, g.Node(g.Exit).Predecessor)
	}
}

func TestSearch_InvalidArguments(t *testing.T) {
	g := build(t, mazetest.RightAngle)

	_, err := search.Search(g, graph.NoNode)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, err = search.Search(g, graph.NodeID(g.Len()))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, err = search.Search(g, g.Entrance, search.WithFrontier("fibonacci"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig))
}

func TestSearch_VisitsEachNodeOnce(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g, err := graph.Build(mazetest.Random(seed, 9, 9, 0.25))
		require.NoError(t, err)

		visits := map[graph.NodeID]int{}
		expands := map[graph.NodeID]int{}
		res, err := search.Search(g, g.Entrance, search.WithTrace(func(e search.Event) {
			switch e.Kind {
			case search.EventVisit:
				visits[e.Node]++
			case search.EventExpand:
				expands[e.Node]++
			}
		}))
		require.NoError(t, err)

		for id, n := range visits {
			assert.Equal(t, 1, n, "seed %d: node %d visited %d times", seed, id, n)
		}
		for id, n := range expands {
			assert.Equal(t, 1, n, "seed %d: node %d expanded %d times", seed, id, n)
		}
		assert.Len(t, visits, res.Visited)
		assert.Len(t, expands, res.Expanded)
	}
}

func TestSearch_ExpansionOrderIsNonDecreasing(t *testing.T) {
	g, err := graph.Build(mazetest.Random(7, 12, 12, 0.3))
	require.NoError(t, err)

	last := -1
	_, err = search.Search(g, g.Entrance, search.WithTrace(func(e search.Event) {
		if e.Kind != search.EventExpand {
			return
		}
		assert.GreaterOrEqual(t, e.Distance, last)
		last = e.Distance
	}))
	require.NoError(t, err)
}

func TestSearch_PathWeightsSumToDistance(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		g, err := graph.Build(mazetest.Random(seed, 10, 8, 0.2))
		require.NoError(t, err)
		res, err := search.Search(g, g.Entrance)
		require.NoError(t, err)

		sum := 0
		prevDist := g.Node(res.ExitAdjacent).Distance + 1
		for id := res.ExitAdjacent; id != g.Entrance; {
			n := g.Node(id)
			require.NotEqual(t, graph.NoNode, n.Predecessor, "seed %d: chain broken at %d", seed, id)
			assert.Less(t, n.Distance, prevDist)
			prevDist = n.Distance
			w, ok := g.Node(n.Predecessor).Weight(id)
			require.True(t, ok)
			sum += w
			id = n.Predecessor
		}
		assert.Equal(t, res.Distance, sum, "seed %d", seed)
	}
}

func TestSearch_SortedMatchesHeap(t *testing.T) {
	for seed := uint64(1); seed <= 40; seed++ {
		m := mazetest.Random(seed, 7, 13, 0.35)
		sortedGraph, err := graph.Build(m)
		require.NoError(t, err)
		heapGraph, err := graph.Build(m)
		require.NoError(t, err)

		var sortedOrder, heapOrder []graph.NodeID
		record := func(out *[]graph.NodeID) search.Option {
			return search.WithTrace(func(e search.Event) {
				if e.Kind == search.EventExpand {
					*out = append(*out, e.Node)
				}
			})
		}

		a, err := search.Search(sortedGraph, sortedGraph.Entrance, search.WithFrontier(search.Sorted), record(&sortedOrder))
		require.NoError(t, err)
		b, err := search.Search(heapGraph, heapGraph.Entrance, search.WithFrontier(search.Heap), record(&heapOrder))
		require.NoError(t, err)

		assert.Equal(t, sortedOrder, heapOrder, "seed %d", seed)
		b.Frontier = a.Frontier
		assert.Equal(t, a, b, "seed %d", seed)
		for i := range sortedGraph.Nodes() {
			x, y := sortedGraph.Nodes()[i], heapGraph.Nodes()[i]
			assert.Equal(t, x.Distance, y.Distance, "seed %d node %d", seed, i)
			assert.Equal(t, x.Predecessor, y.Predecessor, "seed %d node %d", seed, i)
		}
	}
}

func TestSearch_Rerun(t *testing.T) {
	g := build(t, mazetest.Loops)
	first, err := search.Search(g, g.Entrance)
	require.NoError(t, err)
	second, err := search.Search(g, g.Entrance, search.WithFrontier(search.Heap))
	require.NoError(t, err)
	assert.Equal(t, first.Length, second.Length)
	assert.Equal(t, first.ExitAdjacent, second.ExitAdjacent)
}

func TestOptimal(t *testing.T) {
	t.Run("PerfectMazesAgree", func(t *testing.T) {
		for seed := uint64(1); seed <= 20; seed++ {
			g, err := graph.Build(mazetest.Random(seed, 9, 9, 0))
			require.NoError(t, err)
			res, err := search.Search(g, g.Entrance)
			require.NoError(t, err)
			gap, ok := search.Gap(g, res)
			require.True(t, ok)
			assert.Zero(t, gap, "seed %d", seed)
		}
	})

	t.Run("NeverLongerThanSearch", func(t *testing.T) {
		for seed := uint64(1); seed <= 20; seed++ {
			g, err := graph.Build(mazetest.Random(seed, 9, 9, 0.4))
			require.NoError(t, err)
			res, err := search.Search(g, g.Entrance)
			require.NoError(t, err)
			opt, ok := search.Optimal(g)
			require.True(t, ok)
			assert.LessOrEqual(t, opt, res.Length, "seed %d", seed)
		}
	})

	t.Run("Corridor", func(t *testing.T) {
		opt, ok := search.Optimal(build(t, mazetest.Corridor))
		require.True(t, ok)
		assert.Equal(t, 4, opt)
	})

	t.Run("Blocked", func(t *testing.T) {
		_, ok := search.Optimal(build(t, mazetest.Blocked))
		assert.False(t, ok)
	})
}

func TestParseStrategy(t *testing.T) {
	s, err := search.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, search.Sorted, s)

	s, err = search.ParseStrategy(" HEAP ")
	require.NoError(t, err)
	assert.Equal(t, search.Heap, s)

	_, err = search.ParseStrategy("bucket")
	assert.Error(t, err)
}
