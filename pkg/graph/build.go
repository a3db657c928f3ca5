package graph

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/grid"
)

// EntranceWeight selects how the edge from the entrance to its first node
// is weighted.
type EntranceWeight uint8

const (
	// EntranceUnit weights the entrance edge 1 whatever its length. This is
	// the historical behaviour and the default: the walk from the border to
	// the first node is not part of the distance metric.
	EntranceUnit EntranceWeight = iota
	// EntranceMeasured weights the entrance edge by its step count like
	// every other edge.
	EntranceMeasured
)

func (w EntranceWeight) String() string {
	switch w {
	case EntranceUnit:
		return "unit"
	case EntranceMeasured:
		return "measured"
	default:
		return fmt.Sprintf("entrance(%d)", uint8(w))
	}
}

// ParseEntranceWeight parses "unit" or "measured". The empty string is unit.
func ParseEntranceWeight(s string) (EntranceWeight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unit":
		return EntranceUnit, nil
	case "measured":
		return EntranceMeasured, nil
	default:
		return 0, errs.New(errs.ErrCodeInvalidConfig, "unknown entrance weight %q (want unit or measured)", s)
	}
}

type options struct {
	entrance EntranceWeight
}

// Option configures Build.
type Option func(*options)

// WithEntranceWeight sets the entrance edge weighting.
func WithEntranceWeight(w EntranceWeight) Option {
	return func(o *options) { o.entrance = w }
}

// directions are tried in this order when ray-casting from the border.
var directions = [4]grid.Point{
	{Row: 1, Col: 0},  // down
	{Row: -1, Col: 0}, // up
	{Row: 0, Col: 1},  // right
	{Row: 0, Col: -1}, // left
}

// Build derives the decision-point graph of m.
//
// Interior cells become nodes when they are corners or junctions. A single
// row-major scan links each new node to the previous node in its row and to
// the nearest node above it, so every edge is found exactly once. The first
// two Open border cells become the entrance and the exit and are attached
// by casting rays down, up, right and left.
//
// Build fails with DEGENERATE_GRID, NO_ENTRANCE_FOUND or NO_EXIT_FOUND.
// A maze whose exit reaches no node still builds; the search reports
// NO_PATH_EXISTS.
func Build(m *grid.Grid, opts ...Option) (*Graph, error) {
	if m == nil || m.Height() < grid.MinSize || m.Width() < grid.MinSize {
		return nil, errs.New(errs.ErrCodeDegenerateGrid, "maze must be at least %dx%d", grid.MinSize, grid.MinSize)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := newGraph(m, o)
	g.placeNodes()
	if err := g.placeEndpoints(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) placeNodes() {
	h, w := g.grid.Height(), g.grid.Width()
	for r := 1; r < h-1; r++ {
		prev, prevCol := NoNode, 0
		for c := 1; c < w-1; c++ {
			p := grid.Point{Row: r, Col: c}
			if g.grid.At(p) == grid.Wall {
				prev = NoNode
				continue
			}
			if !g.isJunction(p) {
				continue
			}
			id := g.addNode(p, KindJunction)
			if prev != NoNode {
				g.link(prev, id, c-prevCol)
			}
			prev, prevCol = id, c

			for up := r - 1; up > 0; up-- {
				q := grid.Point{Row: up, Col: c}
				if g.grid.At(q) == grid.Wall {
					break
				}
				if other, ok := g.Lookup(q); ok {
					g.link(other, id, r-up)
					break
				}
			}
		}
	}
}

// isJunction reports whether p is a corner (a vertical and a horizontal
// way out) or has more than two ways out.
func (g *Graph) isJunction(p grid.Point) bool {
	open := func(dr, dc int) bool {
		return g.overlay.State(grid.Point{Row: p.Row + dr, Col: p.Col + dc}).Traversable()
	}
	up, down := open(-1, 0), open(1, 0)
	left, right := open(0, -1), open(0, 1)

	moves := 0
	for _, ok := range [4]bool{up, down, left, right} {
		if ok {
			moves++
		}
	}
	return moves > 2 || ((up || down) && (left || right))
}

func (g *Graph) placeEndpoints() error {
	var found []grid.Point
	h, w := g.grid.Height(), g.grid.Width()
scan:
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			p := grid.Point{Row: r, Col: c}
			if !g.grid.IsBorder(p) || g.grid.At(p) == grid.Wall {
				continue
			}
			found = append(found, p)
			if len(found) == 2 {
				break scan
			}
		}
	}
	switch len(found) {
	case 0:
		return errs.New(errs.ErrCodeNoEntranceFound, "no open cell on the border")
	case 1:
		return errs.New(errs.ErrCodeNoExitFound, "only one open border cell at %s", found[0])
	}

	g.Entrance = g.addNode(found[0], KindEntrance)
	g.Exit = g.addNode(found[1], KindExit)

	if hit, steps, ok := g.cast(g.Entrance); ok {
		if hit == g.Exit {
			g.setExitAdjacent(g.Entrance, steps)
		} else {
			weight := 1
			if g.entrance == EntranceMeasured {
				weight = steps
			}
			g.link(g.Entrance, hit, weight)
		}
	}
	if hit, steps, ok := g.cast(g.Exit); ok {
		g.setExitAdjacent(hit, steps)
	}
	return nil
}

// cast walks from a node in each direction until it leaves the grid, meets a
// wall, or reaches another node. The first node reached wins.
func (g *Graph) cast(from NodeID) (NodeID, int, bool) {
	origin := g.nodes[from].Pos
	for _, d := range directions {
		p := origin
		for steps := 1; ; steps++ {
			p = p.Add(d)
			if g.grid.At(p) == grid.Wall {
				break
			}
			if id, ok := g.Lookup(p); ok {
				return id, steps, true
			}
		}
	}
	return NoNode, 0, false
}
