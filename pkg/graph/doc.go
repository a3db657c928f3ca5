// Package graph turns a maze grid into a sparse graph of decision points.
//
// # Nodes
//
// Only cells where a walker has a choice become nodes: corners (a vertical
// and a horizontal way out), T-junctions and crossings. Straight corridor
// cells are skipped. Nodes live in an arena and are addressed by [NodeID];
// edges and predecessor links store ids, never pointers.
//
// # Edges
//
// [Build] scans the interior once in row-major order. Each new node is
// linked to the previous node of its row (a wall in between breaks the
// link) and to the nearest node straight above it. Right and down edges
// come for free when the neighbouring node runs its own scan, so each edge
// is created exactly once and appears in both endpoints' edge lists.
//
// # Entrance and exit
//
// The first two Open border cells in row-major order are the entrance and
// the exit. Each casts rays down, up, right and left; the first node hit
// wins. The entrance gets a real edge, weighted 1 unless
// [WithEntranceWeight] asks for [EntranceMeasured]. The exit gets no edge:
// the node it reaches is flagged ExitAdjacent and the search stops there.
//
//	m, _ := grid.Parse(maze)
//	g, err := graph.Build(m)
//	if err != nil {
//		return err
//	}
//	fmt.Println(g.Len(), "nodes")
package graph
