package grid

import "strings"

// Overlay is a mutable mark layer over an immutable Grid. Marks are
// monotonic: once set they are never cleared, and marking a cell twice is
// a no-op.
type Overlay struct {
	grid  *Grid
	marks []bool
	count int
}

// NewOverlay returns an empty overlay over g.
func NewOverlay(g *Grid) *Overlay {
	return &Overlay{grid: g, marks: make([]bool, g.Len())}
}

// Grid returns the underlying grid.
func (o *Overlay) Grid() *Grid { return o.grid }

// State returns Marked for marked cells and the grid's cell otherwise.
// Out-of-bounds positions read as Wall.
func (o *Overlay) State(p Point) Cell {
	if !o.grid.InBounds(p) {
		return Wall
	}
	if o.marks[o.grid.Index(p)] {
		return Marked
	}
	return o.grid.At(p)
}

// IsMarked reports whether p carries a mark.
func (o *Overlay) IsMarked(p Point) bool {
	return o.grid.InBounds(p) && o.marks[o.grid.Index(p)]
}

// Mark sets the mark at p and reports whether it was newly set. Wall and
// out-of-bounds cells are never marked.
func (o *Overlay) Mark(p Point) bool {
	if !o.grid.InBounds(p) || o.grid.At(p) == Wall {
		return false
	}
	i := o.grid.Index(p)
	if o.marks[i] {
		return false
	}
	o.marks[i] = true
	o.count++
	return true
}

// Count returns the number of marked cells.
func (o *Overlay) Count() int { return o.count }

// Clone returns an independent copy of the overlay.
func (o *Overlay) Clone() *Overlay {
	marks := make([]bool, len(o.marks))
	copy(marks, o.marks)
	return &Overlay{grid: o.grid, marks: marks, count: o.count}
}

// Marked returns the marked positions in row-major order.
func (o *Overlay) Marked() []Point {
	out := make([]Point, 0, o.count)
	w := o.grid.Width()
	for i, m := range o.marks {
		if m {
			out = append(out, Point{Row: i / w, Col: i % w})
		}
	}
	return out
}

// String renders the overlay with '#' for walls, '.' for open cells and
// '*' for marks.
func (o *Overlay) String() string {
	var b strings.Builder
	for r := 0; r < o.grid.Height(); r++ {
		for c := 0; c < o.grid.Width(); c++ {
			switch o.State(Point{Row: r, Col: c}) {
			case Wall:
				b.WriteByte('#')
			case Marked:
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
