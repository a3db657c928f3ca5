package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

// Solution is the portable record of a solved maze.
type Solution struct {
	Width          int          `json:"width" bson:"width"`
	Height         int          `json:"height" bson:"height"`
	Entrance       grid.Point   `json:"entrance" bson:"entrance"`
	Exit           grid.Point   `json:"exit" bson:"exit"`
	ExitAdjacent   grid.Point   `json:"exit_adjacent" bson:"exit_adjacent"`
	Frontier       string       `json:"frontier" bson:"frontier"`
	EntranceWeight string       `json:"entrance_weight" bson:"entrance_weight"`
	Nodes          int          `json:"nodes" bson:"nodes"`
	Junctions      int          `json:"junctions" bson:"junctions"`
	Distance       int          `json:"distance" bson:"distance"`
	Length         int          `json:"length" bson:"length"`
	Expanded       int          `json:"expanded" bson:"expanded"`
	Visited        int          `json:"visited" bson:"visited"`
	Turns          int          `json:"turns" bson:"turns"`
	Path           []grid.Point `json:"path" bson:"path"`

	// Optimal is the reference shortest length, set when verification ran.
	Optimal *int `json:"optimal,omitempty" bson:"optimal,omitempty"`
}

// NewSolution summarises a searched graph and its route.
func NewSolution(g *graph.Graph, res *search.Result, r *route.Route) *Solution {
	m := g.Grid()
	s := &Solution{
		Width:          m.Width(),
		Height:         m.Height(),
		Entrance:       g.Node(g.Entrance).Pos,
		Exit:           g.Node(g.Exit).Pos,
		Frontier:       string(res.Frontier),
		EntranceWeight: g.EntranceWeight().String(),
		Nodes:          g.Len(),
		Junctions:      g.Junctions(),
		Distance:       res.Distance,
		Length:         res.Length,
		Expanded:       res.Expanded,
		Visited:        res.Visited,
		Turns:          len(r.Turns()),
		Path:           r.Cells,
	}
	if res.ExitAdjacent != graph.NoNode {
		s.ExitAdjacent = g.Node(res.ExitAdjacent).Pos
	}
	return s
}

// Validate checks that the path is contiguous and runs from the entrance
// to the exit.
func (s *Solution) Validate() error {
	if len(s.Path) == 0 {
		return errs.New(errs.ErrCodeMalformedPath, "solution has no path")
	}
	if s.Path[0] != s.Entrance || s.Path[len(s.Path)-1] != s.Exit {
		return errs.New(errs.ErrCodeMalformedPath, "path runs %s to %s, want %s to %s",
			s.Path[0], s.Path[len(s.Path)-1], s.Entrance, s.Exit)
	}
	for i := 1; i < len(s.Path); i++ {
		a, b := s.Path[i-1], s.Path[i]
		if d := abs(a.Row-b.Row) + abs(a.Col-b.Col); d != 1 {
			return errs.New(errs.ErrCodeMalformedPath, "step %d jumps from %s to %s", i, a, b)
		}
	}
	return nil
}

// Overlay marks the solution's path on m.
func (s *Solution) Overlay(m *grid.Grid) *grid.Overlay {
	o := grid.NewOverlay(m)
	route.Rasterize(o, s.Path)
	return o
}

// WriteSolution encodes s as indented JSON.
func WriteSolution(w io.Writer, s *Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSolution decodes and validates a solution.
func ReadSolution(r io.Reader) (*Solution, error) {
	var s Solution
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode solution")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExportSolution writes s to a JSON file at path.
func ExportSolution(s *Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSolution(f, s)
}

// WriteGraph encodes the graph's snapshot as indented JSON.
func WriteGraph(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Snapshot()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
