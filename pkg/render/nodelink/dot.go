package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mazeroute/pkg/graph"
)

// Options configures node-link rendering.
type Options struct {
	// Weights labels every edge with its weight.
	Weights bool
	// Detailed adds search distance and predecessor to node labels.
	Detailed bool
	// Route highlights the edges between consecutive nodes.
	Route []graph.NodeID
	// Spacing is the distance in points between adjacent cells (default 0.4).
	Spacing float64
}

// ToDOT converts g to an undirected Graphviz graph with pinned positions.
func ToDOT(g *graph.Graph, opts Options) string {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 0.4
	}
	onRoute := make(map[[2]graph.NodeID]bool, len(opts.Route))
	for i := 1; i < len(opts.Route); i++ {
		onRoute[pairKey(opts.Route[i-1], opts.Route[i])] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=8, width=0.25, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=8];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{
			fmt.Sprintf("label=%q", label(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", float64(n.Pos.Col)*spacing, -float64(n.Pos.Row)*spacing),
		}
		switch {
		case n.Kind == graph.KindEntrance:
			attrs = append(attrs, "fillcolor=palegreen", "shape=doublecircle")
		case n.Kind == graph.KindExit:
			attrs = append(attrs, "fillcolor=salmon", "shape=doublecircle")
		case n.ExitAdjacent:
			attrs = append(attrs, "fillcolor=gold")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, join(attrs))
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		var attrs []string
		if opts.Weights {
			attrs = append(attrs, fmt.Sprintf("label=\"%d\"", l.Weight))
		}
		if onRoute[pairKey(l.From, l.To)] {
			attrs = append(attrs, "color=red", "penwidth=2.5")
		}
		fmt.Fprintf(&buf, "  n%d -- n%d%s;\n", l.From, l.To, bracket(attrs))
	}

	// The exit has no edge; draw its link to the exit-adjacent node dashed.
	if adj := g.ExitAdjacent(); adj != graph.NoNode {
		attrs := []string{"style=dashed"}
		if opts.Weights {
			attrs = append(attrs, fmt.Sprintf("label=\"%d\"", g.ExitLink()))
		}
		if len(opts.Route) > 0 && opts.Route[len(opts.Route)-1] == g.Exit {
			attrs = append(attrs, "color=red", "penwidth=2.5")
		}
		fmt.Fprintf(&buf, "  n%d -- n%d%s;\n", adj, g.Exit, bracket(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(n graph.Node, detailed bool) string {
	s := fmt.Sprintf("%d,%d", n.Pos.Row, n.Pos.Col)
	if !detailed || n.Distance == graph.Unreached {
		return s
	}
	return fmt.Sprintf("%s\nd=%d", s, n.Distance)
}

func pairKey(a, b graph.NodeID) [2]graph.NodeID {
	if a > b {
		a, b = b, a
	}
	return [2]graph.NodeID{a, b}
}

func join(attrs []string) string {
	var b bytes.Buffer
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
	}
	return b.String()
}

func bracket(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + join(attrs) + "]"
}

// Format is a Graphviz output format.
type Format = graphviz.Format

// Output formats.
const (
	SVG = graphviz.SVG
	PNG = graphviz.PNG
)

// Render lays out a DOT graph with neato and renders it.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderSVG renders a DOT graph to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, SVG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
