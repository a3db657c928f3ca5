// Package render draws solved mazes.
//
// Two kinds of output exist:
//
//   - Raster images ([Image], [PNG]): the maze at pixel resolution with an
//     overlay painted on top. The nodes image shows every graph node, the
//     path image shows the reconstructed route. Images can be upscaled with
//     nearest-neighbour sampling so single-pixel corridors stay crisp.
//   - Node-link diagrams (in [nodelink]): the decision-point graph as DOT,
//     laid out on the maze's own coordinates and rendered with Graphviz.
//
//	img := render.Image(overlay, render.Classic)
//	data, err := render.PNG(overlay, render.WithScale(4))
//
// [nodelink]: github.com/matzehuels/mazeroute/pkg/render/nodelink
package render
