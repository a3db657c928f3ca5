// Package pkg holds the mazeroute libraries.
//
// A maze image is solved in five steps, each owned by one package:
//
//	maze image or text picture
//	         ↓
//	    [io]        decode into a grid of walls and open cells
//	         ↓
//	    [graph]     reduce the grid to decision points joined by corridors
//	         ↓
//	    [search]    sorted-frontier Dijkstra from the entrance
//	         ↓
//	    [route]     walk predecessors back from the exit, rasterize the cells
//	         ↓
//	    [render]    Nodes.png, Path.png, or a node-link diagram
//
// [pipeline] runs the steps with caching ([cache]) and metrics hooks
// ([observability]); [config] loads the settings both the CLI and the
// HTTP server start from. Errors carry a code from [errors] that the CLI
// turns into an exit status and the server into an HTTP status.
//
// Solving a maze in a few lines:
//
//	m, err := io.Load("maze.png", 0)
//	if err != nil {
//	    return err
//	}
//	res, err := pipeline.Solve(ctx, m, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Solution.Length, "steps")
package pkg
