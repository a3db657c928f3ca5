// Package io reads mazes and writes solutions.
//
// # Mazes
//
// [Decode] turns raster images (PNG, GIF, JPEG, BMP, TIFF) and text
// pictures into a [grid.Grid]. Pixels at or above a luminance threshold
// are open; everything else is wall. Text mazes use '#' for wall and '.'
// or ' ' for open cells:
//
//	#.###
//	#...#
//	###.#
//
// [Load] reads a file by path and picks the decoder from its extension;
// [Decode] sniffs the content, which suits request bodies without names.
//
// # Solutions
//
// [WriteSolution] and [ReadSolution] use a small JSON document that
// records where the entrance and exit are, how long the path is, and every
// cell on it:
//
//	{
//	  "width": 5, "height": 5,
//	  "entrance": {"row": 0, "col": 1},
//	  "exit": {"row": 4, "col": 3},
//	  "length": 5,
//	  "path": [{"row": 0, "col": 1}, ...]
//	}
//
// [WriteGraph] exports the full decision-point graph as a
// [graph.Snapshot] for external tools.
package io
