// Package grid provides a read-only view over a two-tone maze raster.
//
// A [Grid] answers whether a cell is Wall or Open and exposes the raster's
// height and width. It never changes after construction. Annotation happens
// on an [Overlay], a monotonic mark layer that reports marked cells as
// Marked; the graph builder keeps one overlay for placed nodes and the
// path reconstructor keeps another for path cells.
//
// Grids are built from already-decoded pixels ([FromImage]), from boolean
// rows ([New]) or from a text picture ([Parse]):
//
//	g, err := grid.Parse(`
//	#.###
//	#...#
//	###.#
//	`)
//
// Decoding image containers is left to pkg/io.
package grid
