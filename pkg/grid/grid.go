package grid

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
)

// MinSize is the smallest height and width a maze can have: the border
// row/column must exist distinct from the interior.
const MinSize = 3

// DefaultThreshold is the 8-bit luminance at or above which a pixel is Open.
const DefaultThreshold = 128

// Cell is the state of one raster cell.
type Cell uint8

const (
	// Wall cells cannot be traversed.
	Wall Cell = iota
	// Open cells are corridor.
	Open
	// Marked cells are Open cells that carry an annotation (a node or a
	// path cell). Only an Overlay reports Marked.
	Marked
)

// String returns the lowercase name of the cell state.
func (c Cell) String() string {
	switch c {
	case Wall:
		return "wall"
	case Open:
		return "open"
	case Marked:
		return "marked"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Traversable reports whether the cell can be walked through.
func (c Cell) Traversable() bool { return c == Open || c == Marked }

// Point is a (row, column) position on a grid.
type Point struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// String formats the point as "(row, col)".
func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.Row, p.Col) }

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{Row: p.Row + d.Row, Col: p.Col + d.Col} }

// Grid is an immutable two-tone raster. The zero value is not usable; build
// one with New, Parse or FromImage.
type Grid struct {
	height, width int
	cells         []Cell
}

// New builds a grid from rows of booleans where true marks an Open cell.
// Every row must have the same length and the grid must be at least
// MinSize in both dimensions.
func New(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errs.New(errs.ErrCodeDegenerateGrid, "grid has no rows")
	}
	h, w := len(rows), len(rows[0])
	if err := checkSize(h, w); err != nil {
		return nil, err
	}
	g := &Grid{height: h, width: w, cells: make([]Cell, h*w)}
	for r, row := range rows {
		if len(row) != w {
			return nil, errs.New(errs.ErrCodeInvalidInput, "row %d has %d cells, want %d", r, len(row), w)
		}
		for c, open := range row {
			if open {
				g.cells[r*w+c] = Open
			}
		}
	}
	return g, nil
}

// Parse builds a grid from a text picture where '#' is Wall and '.' or ' '
// is Open. Blank leading and trailing lines are ignored, which keeps
// literal mazes in tests readable.
func Parse(s string) (*Grid, error) {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	rows := make([][]bool, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		row := make([]bool, len(line))
		for j, ch := range line {
			switch ch {
			case '#':
			case '.', ' ':
				row[j] = true
			default:
				return nil, errs.New(errs.ErrCodeInvalidInput, "line %d: unexpected character %q", i+1, ch)
			}
		}
		rows = append(rows, row)
	}
	return New(rows)
}

// FromImage interprets a decoded raster. Pixels whose luminance is at or
// above threshold are Open, all others are Wall. A threshold of zero
// selects DefaultThreshold.
func FromImage(img image.Image, threshold uint8) (*Grid, error) {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	if err := checkSize(h, w); err != nil {
		return nil, err
	}
	g := &Grid{height: h, width: w, cells: make([]Cell, h*w)}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			px := color.GrayModel.Convert(img.At(b.Min.X+c, b.Min.Y+r)).(color.Gray)
			if px.Y >= threshold {
				g.cells[r*w+c] = Open
			}
		}
	}
	return g, nil
}

func checkSize(h, w int) error {
	if h < MinSize || w < MinSize {
		return errs.New(errs.ErrCodeDegenerateGrid, "grid is %dx%d, need at least %dx%d", h, w, MinSize, MinSize)
	}
	return nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

// IsBorder reports whether p lies on the first or last row or column.
func (g *Grid) IsBorder(p Point) bool {
	return p.Row == 0 || p.Col == 0 || p.Row == g.height-1 || p.Col == g.width-1
}

// Index returns the row-major offset of p. p must be in bounds.
func (g *Grid) Index(p Point) int { return p.Row*g.width + p.Col }

// At returns the cell at p. Out-of-bounds positions read as Wall.
func (g *Grid) At(p Point) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[g.Index(p)]
}

// OpenCount returns the number of Open cells.
func (g *Grid) OpenCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Open {
			n++
		}
	}
	return n
}

// String renders the grid back into the text form accepted by Parse.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.cells[r*g.width+c] == Wall {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
