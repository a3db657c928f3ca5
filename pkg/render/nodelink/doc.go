// Package nodelink renders a maze graph as a node-link diagram.
//
// Nodes are pinned to their maze coordinates and laid out with Graphviz's
// neato engine, so the diagram keeps the shape of the maze. Edge labels
// carry weights; the entrance, exit and exit-adjacent node are colored, and
// an optional route is drawn bold.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Weights: true, Route: r.Nodes})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
