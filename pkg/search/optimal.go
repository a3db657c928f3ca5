package search

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/mazeroute/pkg/graph"
)

// Optimal computes the shortest entrance to exit length over g with a
// textbook Dijkstra, using the same edge weights and exit links as Search.
// It reports false when the exit is unreachable.
//
// Search fixes a node's distance when the node is first reached, so on
// mazes with cycles its Length can exceed Optimal. The two agree on mazes
// without cycles.
func Optimal(g *graph.Graph) (int, bool) {
	if g.Entrance == graph.NoNode {
		return 0, false
	}
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for _, n := range g.Nodes() {
		wg.AddNode(simple.Node(n.ID))
	}
	for _, l := range g.Links() {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(l.From),
			T: simple.Node(l.To),
			W: float64(l.Weight),
		})
	}

	shortest := path.DijkstraFrom(simple.Node(g.Entrance), wg)
	best, found := 0, false
	for _, n := range g.Nodes() {
		if !n.ExitAdjacent {
			continue
		}
		w := shortest.WeightTo(int64(n.ID))
		if math.IsInf(w, 1) {
			continue
		}
		d := int(w) + n.ExitLink
		if !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

// Gap compares a search result with Optimal. It returns the number of extra
// steps Search took, and false when no optimum exists.
func Gap(g *graph.Graph, res *Result) (int, bool) {
	opt, ok := Optimal(g)
	if !ok || res == nil {
		return 0, false
	}
	return res.Length - opt, true
}
