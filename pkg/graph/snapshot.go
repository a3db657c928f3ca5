package graph

import "github.com/matzehuels/mazeroute/pkg/grid"

// Snapshot is a plain, serializable copy of a graph and its search state.
type Snapshot struct {
	Height       int            `json:"height" bson:"height"`
	Width        int            `json:"width" bson:"width"`
	Entrance     grid.Point     `json:"entrance" bson:"entrance"`
	Exit         grid.Point     `json:"exit" bson:"exit"`
	ExitAdjacent *grid.Point    `json:"exit_adjacent,omitempty" bson:"exit_adjacent,omitempty"`
	EntranceEdge string         `json:"entrance_weight" bson:"entrance_weight"`
	Nodes        []NodeSnapshot `json:"nodes" bson:"nodes"`
	Links        []Link         `json:"links" bson:"links"`
}

// NodeSnapshot is one arena entry of a Snapshot.
type NodeSnapshot struct {
	ID           NodeID     `json:"id" bson:"id"`
	Pos          grid.Point `json:"pos" bson:"pos"`
	Kind         string     `json:"kind" bson:"kind"`
	ExitAdjacent bool       `json:"exit_adjacent,omitempty" bson:"exit_adjacent,omitempty"`
	ExitLink     int        `json:"exit_link,omitempty" bson:"exit_link,omitempty"`
	Distance     int        `json:"distance" bson:"distance"`
	Predecessor  NodeID     `json:"predecessor" bson:"predecessor"`
}

// Snapshot copies the graph. The copy shares nothing with g.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Height:       g.grid.Height(),
		Width:        g.grid.Width(),
		Entrance:     g.nodes[g.Entrance].Pos,
		Exit:         g.nodes[g.Exit].Pos,
		EntranceEdge: g.entrance.String(),
		Nodes:        make([]NodeSnapshot, len(g.nodes)),
		Links:        g.Links(),
	}
	if g.exitAdjacent != NoNode {
		p := g.nodes[g.exitAdjacent].Pos
		s.ExitAdjacent = &p
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		s.Nodes[i] = NodeSnapshot{
			ID:           n.ID,
			Pos:          n.Pos,
			Kind:         n.Kind.String(),
			ExitAdjacent: n.ExitAdjacent,
			ExitLink:     n.ExitLink,
			Distance:     n.Distance,
			Predecessor:  n.Predecessor,
		}
	}
	return s
}
