// Package route turns the predecessor links left by a search into the path
// through the maze.
//
// [Reconstruct] walks back from a node to the entrance and expands every
// hop into the cells it crosses. [Rasterize] marks those cells on an
// overlay; marking is idempotent, so overlapping segments never disturb
// each other.
package route

import (
	"slices"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
)

// Route is a reconstructed path, ordered from the entrance.
type Route struct {
	// Nodes lists the graph nodes on the path.
	Nodes []graph.NodeID `json:"nodes"`
	// Cells lists every cell on the path, nodes included, without gaps:
	// consecutive cells are 4-neighbours.
	Cells []grid.Point `json:"cells"`
}

// Len returns the number of steps along the route.
func (r *Route) Len() int {
	if len(r.Cells) == 0 {
		return 0
	}
	return len(r.Cells) - 1
}

// Turns returns the cells where the route changes direction.
func (r *Route) Turns() []grid.Point {
	var out []grid.Point
	for i := 1; i+1 < len(r.Cells); i++ {
		a, b, c := r.Cells[i-1], r.Cells[i], r.Cells[i+1]
		if (b.Row-a.Row) != (c.Row-b.Row) || (b.Col-a.Col) != (c.Col-b.Col) {
			out = append(out, b)
		}
	}
	return out
}

// Reconstruct follows predecessor links from from back to the node without
// a predecessor. from is normally the graph's exit, whose predecessor the
// search sets to the exit-adjacent node.
//
// Every hop must be axis-aligned. A hop that changes both row and column,
// or a predecessor chain that loops, is a construction bug and fails with
// MALFORMED_PATH.
func Reconstruct(g *graph.Graph, from graph.NodeID) (*Route, error) {
	if from < 0 || int(from) >= g.Len() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "node %d is not in the graph", from)
	}

	chain := []graph.NodeID{from}
	for id := g.Node(from).Predecessor; id != graph.NoNode; id = g.Node(id).Predecessor {
		if len(chain) > g.Len() {
			return nil, errs.New(errs.ErrCodeMalformedPath, "predecessor chain from %s loops", g.Node(from).Pos)
		}
		chain = append(chain, id)
	}
	slices.Reverse(chain)

	r := &Route{Nodes: chain, Cells: []grid.Point{g.Node(chain[0]).Pos}}
	for i := 1; i < len(chain); i++ {
		a, b := g.Node(chain[i-1]).Pos, g.Node(chain[i]).Pos
		seg, err := Segment(a, b)
		if err != nil {
			return nil, err
		}
		r.Cells = append(r.Cells, seg...)
	}
	return r, nil
}

// Segment returns the cells from a (exclusive) to b (inclusive). a and b
// must share a row or a column.
func Segment(a, b grid.Point) ([]grid.Point, error) {
	if a.Row != b.Row && a.Col != b.Col {
		return nil, errs.New(errs.ErrCodeMalformedPath, "hop %s -> %s is not axis-aligned", a, b)
	}
	d := grid.Point{Row: sign(b.Row - a.Row), Col: sign(b.Col - a.Col)}
	var out []grid.Point
	for p := a; p != b; {
		p = p.Add(d)
		out = append(out, p)
	}
	return out, nil
}

// Rasterize marks cells on o and returns how many were newly marked.
func Rasterize(o *grid.Overlay, cells []grid.Point) int {
	n := 0
	for _, p := range cells {
		if o.Mark(p) {
			n++
		}
	}
	return n
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
