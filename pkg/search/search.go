package search

import (
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
)

// EventKind identifies a trace event.
type EventKind uint8

const (
	// EventExpand fires when a node leaves the front of the frontier to be
	// expanded.
	EventExpand EventKind = iota
	// EventVisit fires when a node is reached for the first time and
	// enqueued.
	EventVisit
	// EventExit fires once, when the front node is exit-adjacent.
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventExpand:
		return "expand"
	case EventVisit:
		return "visit"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Event describes one step of a search. From is the expanding node for
// EventVisit and NoNode otherwise.
type Event struct {
	Kind     EventKind
	Node     graph.NodeID
	From     graph.NodeID
	Distance int
	Frontier int
}

type options struct {
	strategy Strategy
	trace    func(Event)
}

// Option configures Search.
type Option func(*options)

// WithFrontier selects the frontier implementation. The default is Sorted.
func WithFrontier(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithTrace registers fn to observe every search event. fn runs on the
// searching goroutine and must not modify the graph.
func WithTrace(fn func(Event)) Option {
	return func(o *options) { o.trace = fn }
}

// Result summarises a successful search.
type Result struct {
	// Frontier is the strategy that ran.
	Frontier Strategy `json:"frontier"`
	// ExitAdjacent is the node the search stopped at.
	ExitAdjacent graph.NodeID `json:"exit_adjacent"`
	// Distance is ExitAdjacent's distance from the entrance.
	Distance int `json:"distance"`
	// Length adds the exit link to Distance: the full entrance to exit
	// step count under the graph's entrance weighting.
	Length int `json:"length"`
	// Expanded counts nodes taken from the front of the frontier.
	Expanded int `json:"expanded"`
	// Visited counts nodes that entered the frontier, entrance included.
	Visited     int `json:"visited"`
	MaxFrontier int `json:"max_frontier"`
}

// Search runs the sorted-frontier Dijkstra variant from entrance and fills
// in Distance, Visited and Predecessor on every reached node. Search state
// from an earlier run is cleared first.
//
// A node is marked visited the moment it is first reached and its
// predecessor is never revised. The search stops as soon as the front of
// the frontier is exit-adjacent; the graph's exit then takes that node as
// its predecessor so that reconstruction can start from the exit.
//
// Search fails with NO_PATH_EXISTS when the frontier runs dry.
func Search(g *graph.Graph, entrance graph.NodeID, opts ...Option) (*Result, error) {
	o := options{strategy: Sorted}
	for _, opt := range opts {
		opt(&o)
	}
	strategy, err := ParseStrategy(string(o.strategy))
	if err != nil {
		return nil, err
	}
	if entrance < 0 || int(entrance) >= g.Len() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "entrance %d is not a node", entrance)
	}

	g.Reset()
	emit := func(Event) {}
	if o.trace != nil {
		emit = o.trace
	}

	frontier := strategy.New(func(id graph.NodeID) int { return g.Node(id).Distance })
	res := &Result{Frontier: strategy, ExitAdjacent: graph.NoNode}

	start := g.Node(entrance)
	start.Visited = true
	start.Distance = 0
	frontier.Insert(entrance)
	res.Visited, res.MaxFrontier = 1, 1
	emit(Event{Kind: EventVisit, Node: entrance, From: graph.NoNode, Frontier: 1})

	var reached []graph.NodeID
	for frontier.Len() > 0 {
		top := g.Node(frontier.Front())
		if top.ExitAdjacent {
			res.ExitAdjacent = top.ID
			res.Distance = top.Distance
			res.Length = top.Distance + top.ExitLink
			if g.Exit != graph.NoNode {
				exit := g.Node(g.Exit)
				exit.Predecessor = top.ID
				exit.Distance = res.Length
			}
			emit(Event{Kind: EventExit, Node: top.ID, From: graph.NoNode, Distance: top.Distance, Frontier: frontier.Len()})
			return res, nil
		}

		res.Expanded++
		emit(Event{Kind: EventExpand, Node: top.ID, From: graph.NoNode, Distance: top.Distance, Frontier: frontier.Len()})

		reached = reached[:0]
		for _, e := range top.Edges {
			n := g.Node(e.To)
			if n.Visited {
				continue
			}
			n.Visited = true
			n.Predecessor = top.ID
			n.Distance = top.Distance + e.Weight
			reached = append(reached, n.ID)
		}

		frontier.Insert(reached...)
		for _, id := range reached {
			emit(Event{Kind: EventVisit, Node: id, From: top.ID, Distance: g.Node(id).Distance, Frontier: frontier.Len()})
		}
		res.Visited += len(reached)
		res.MaxFrontier = max(res.MaxFrontier, frontier.Len())
		frontier.DropFront()
	}

	return nil, errs.New(errs.ErrCodeNoPathExists, "frontier exhausted after expanding %d of %d nodes", res.Expanded, g.Len())
}
