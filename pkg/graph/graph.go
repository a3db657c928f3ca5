package graph

import (
	"fmt"

	"github.com/matzehuels/mazeroute/pkg/grid"
)

// NodeID addresses a node in a Graph's arena. IDs are dense and stable for
// the lifetime of the graph.
type NodeID int32

// NoNode is the zero link: an unset predecessor or a cell without a node.
const NoNode NodeID = -1

// Unreached is the Distance of a node the search has not reached.
const Unreached = -1

// Kind distinguishes the border endpoints from interior decision points.
type Kind uint8

const (
	// KindJunction is an interior corner, T-junction or crossing.
	KindJunction Kind = iota
	// KindEntrance is the first Open border cell in row-major order.
	KindEntrance
	// KindExit is the second Open border cell in row-major order.
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindJunction:
		return "junction"
	case KindEntrance:
		return "entrance"
	case KindExit:
		return "exit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Edge is one half of an undirected link. Weight is the number of steps
// between the two nodes along a single axis and is always at least 1.
type Edge struct {
	To     NodeID
	Weight int
}

// Node is a decision point on the grid. Edges keep insertion order so that
// every traversal of the graph is deterministic.
//
// Distance, Visited and Predecessor belong to the search; Build leaves them
// at Unreached, false and NoNode.
type Node struct {
	ID    NodeID
	Pos   grid.Point
	Kind  Kind
	Edges []Edge

	// ExitAdjacent marks the node reached by the exit's ray (or the
	// entrance, when the entrance sees the exit directly). ExitLink holds
	// the ray's step count.
	ExitAdjacent bool
	ExitLink     int

	Distance    int
	Visited     bool
	Predecessor NodeID
}

// Weight returns the weight of the edge to id.
func (n *Node) Weight(to NodeID) (int, bool) {
	for _, e := range n.Edges {
		if e.To == to {
			return e.Weight, true
		}
	}
	return 0, false
}

// Degree returns the number of incident edges.
func (n *Node) Degree() int { return len(n.Edges) }

// Graph is the decision-point graph of one maze. The zero value is not
// usable; create one with Build.
//
// A Graph is not safe for concurrent use. Build owns it until it returns,
// then the search, then reconstruction.
type Graph struct {
	grid    *grid.Grid
	overlay *grid.Overlay
	nodes   []Node
	index   []NodeID

	// Entrance and Exit are the two border nodes.
	Entrance NodeID
	Exit     NodeID

	exitAdjacent NodeID
	entrance     EntranceWeight
}

func newGraph(g *grid.Grid, o options) *Graph {
	index := make([]NodeID, g.Len())
	for i := range index {
		index[i] = NoNode
	}
	return &Graph{
		grid:         g,
		overlay:      grid.NewOverlay(g),
		index:        index,
		Entrance:     NoNode,
		Exit:         NoNode,
		exitAdjacent: NoNode,
		entrance:     o.entrance,
	}
}

// Grid returns the maze the graph was built from.
func (g *Graph) Grid() *grid.Grid { return g.grid }

// Overlay returns the node overlay: every node position is Marked. Callers
// that want to draw on it should Clone it first.
func (g *Graph) Overlay() *grid.Overlay { return g.overlay }

// Len returns the number of nodes, entrance and exit included.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id. It panics if id is out of range.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// Nodes returns the arena in id order. The slice aliases the graph.
func (g *Graph) Nodes() []Node { return g.nodes }

// Lookup returns the node placed at p.
func (g *Graph) Lookup(p grid.Point) (NodeID, bool) {
	if !g.grid.InBounds(p) {
		return NoNode, false
	}
	id := g.index[g.grid.Index(p)]
	return id, id != NoNode
}

// ExitAdjacent returns the node that connects directly to the exit, or
// NoNode if the exit's ray reached nothing and the entrance cannot see it.
func (g *Graph) ExitAdjacent() NodeID { return g.exitAdjacent }

// ExitLink returns the step count from the exit-adjacent node to the exit.
func (g *Graph) ExitLink() int {
	if g.exitAdjacent == NoNode {
		return 0
	}
	return g.nodes[g.exitAdjacent].ExitLink
}

// EntranceWeight reports how the entrance edge was weighted.
func (g *Graph) EntranceWeight() EntranceWeight { return g.entrance }

// Junctions returns the number of interior nodes.
func (g *Graph) Junctions() int {
	n := 0
	for i := range g.nodes {
		if g.nodes[i].Kind == KindJunction {
			n++
		}
	}
	return n
}

// Link is an undirected edge reported once, From < To.
type Link struct {
	From   NodeID `json:"from" bson:"from"`
	To     NodeID `json:"to" bson:"to"`
	Weight int    `json:"weight" bson:"weight"`
}

// Links returns every edge once, ordered by the lower endpoint and then by
// insertion.
func (g *Graph) Links() []Link {
	var out []Link
	for i := range g.nodes {
		n := &g.nodes[i]
		for _, e := range n.Edges {
			if n.ID < e.To {
				out = append(out, Link{From: n.ID, To: e.To, Weight: e.Weight})
			}
		}
	}
	return out
}

// Reset clears search state so the graph can be searched again.
func (g *Graph) Reset() {
	for i := range g.nodes {
		n := &g.nodes[i]
		n.Distance = Unreached
		n.Visited = false
		n.Predecessor = NoNode
	}
}

func (g *Graph) addNode(p grid.Point, kind Kind) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:          id,
		Pos:         p,
		Kind:        kind,
		Distance:    Unreached,
		Predecessor: NoNode,
	})
	g.index[g.grid.Index(p)] = id
	g.overlay.Mark(p)
	return id
}

// link adds an undirected edge. It refuses self loops and a second edge
// between the same pair.
func (g *Graph) link(a, b NodeID, weight int) bool {
	if a == b {
		return false
	}
	if _, ok := g.nodes[a].Weight(b); ok {
		return false
	}
	g.nodes[a].Edges = append(g.nodes[a].Edges, Edge{To: b, Weight: weight})
	g.nodes[b].Edges = append(g.nodes[b].Edges, Edge{To: a, Weight: weight})
	return true
}

func (g *Graph) setExitAdjacent(id NodeID, steps int) {
	n := &g.nodes[id]
	n.ExitAdjacent = true
	n.ExitLink = steps
	if g.exitAdjacent == NoNode {
		g.exitAdjacent = id
	}
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph(%dx%d, %d nodes, %d junctions)", g.grid.Height(), g.grid.Width(), len(g.nodes), g.Junctions())
}

