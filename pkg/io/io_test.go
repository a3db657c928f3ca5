package io

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/matzehuels/mazeroute/internal/mazetest"
	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/graph"
	"github.com/matzehuels/mazeroute/pkg/grid"
	"github.com/matzehuels/mazeroute/pkg/route"
	"github.com/matzehuels/mazeroute/pkg/search"
)

// picture draws g as a grayscale image, open cells at the given level.
func picture(g *grid.Grid, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			if g.At(grid.Point{Row: r, Col: c}) == grid.Open {
				img.SetGray(c, r, color.Gray{Y: level})
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	want := mazetest.MustParse(mazetest.RightAngle)
	got, format, err := Decode(bytes.NewReader(encodePNG(t, picture(want, 255))), 0)
	require.NoError(t, err)
	assert.Equal(t, FormatImage, format)
	assert.Equal(t, want.String(), got.String())
}

func TestDecode_BMP(t *testing.T) {
	want := mazetest.MustParse(mazetest.Loops)
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, picture(want, 255)))

	got, format, err := Decode(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, FormatImage, format)
	assert.Equal(t, want.String(), got.String())
}

func TestDecode_Threshold(t *testing.T) {
	m := mazetest.MustParse(mazetest.RightAngle)
	data := encodePNG(t, picture(m, 100))

	dark, _, err := Decode(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Zero(t, dark.OpenCount(), "level 100 is below the default threshold")

	light, _, err := Decode(bytes.NewReader(data), 90)
	require.NoError(t, err)
	assert.Equal(t, m.OpenCount(), light.OpenCount())
}

func TestDecode_Text(t *testing.T) {
	got, format, err := Decode(strings.NewReader(strings.ReplaceAll(mazetest.RightAngle, "\n", "\r\n")), 0)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)
	assert.Equal(t, mazetest.MustParse(mazetest.RightAngle).String(), got.String())
}

func TestDecode_Errors(t *testing.T) {
	_, _, err := Decode(strings.NewReader("#?#\n#.#\n###"), 0)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))

	_, _, err = Decode(strings.NewReader("##\n##"), 0)
	assert.True(t, errs.Is(err, errs.ErrCodeDegenerateGrid))

	truncated := encodePNG(t, picture(mazetest.MustParse(mazetest.Loops), 255))[:40]
	_, _, err = Decode(bytes.NewReader(truncated), 0)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat), "got %v", err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "maze.txt")
	require.NoError(t, os.WriteFile(txt, []byte(mazetest.Corridor), 0o644))
	g, err := Load(txt, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Height())

	img := filepath.Join(dir, "maze.png")
	require.NoError(t, os.WriteFile(img, encodePNG(t, picture(mazetest.MustParse(mazetest.Corridor), 255)), 0o644))
	g, err = Load(img, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, g.OpenCount())

	_, err = Load(filepath.Join(dir, "missing.png"), 0)
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))

	_, err = Load(filepath.Join(dir, "maze.svg"), 0)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func solve(t *testing.T, maze string) (*graph.Graph, *Solution) {
	t.Helper()
	g, err := graph.Build(mazetest.MustParse(maze))
	require.NoError(t, err)
	res, err := search.Search(g, g.Entrance)
	require.NoError(t, err)
	r, err := route.Reconstruct(g, g.Exit)
	require.NoError(t, err)
	return g, NewSolution(g, res, r)
}

func TestSolution(t *testing.T) {
	_, s := solve(t, mazetest.RightAngle)
	assert.Equal(t, grid.Point{Row: 0, Col: 1}, s.Entrance)
	assert.Equal(t, grid.Point{Row: 4, Col: 3}, s.Exit)
	assert.Equal(t, grid.Point{Row: 2, Col: 3}, s.ExitAdjacent)
	assert.Equal(t, "sorted", s.Frontier)
	assert.Equal(t, "unit", s.EntranceWeight)
	assert.Equal(t, 5, s.Length)
	assert.Len(t, s.Path, 7)
	assert.Equal(t, 2, s.Turns)
	require.NoError(t, s.Validate())

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, s))
	assert.Contains(t, buf.String(), `"exit_adjacent": {`)
	assert.NotContains(t, buf.String(), "optimal")

	back, err := ReadSolution(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	o := back.Overlay(mazetest.MustParse(mazetest.RightAngle))
	assert.Equal(t, 7, o.Count())
}

func TestSolution_Validate(t *testing.T) {
	_, s := solve(t, mazetest.RightAngle)

	gap := *s
	gap.Path = append([]grid.Point{}, s.Path...)
	gap.Path = append(gap.Path[:2], gap.Path[3:]...)
	assert.True(t, errs.Is(gap.Validate(), errs.ErrCodeMalformedPath))

	wrongEnd := *s
	wrongEnd.Exit = grid.Point{Row: 4, Col: 1}
	assert.True(t, errs.Is(wrongEnd.Validate(), errs.ErrCodeMalformedPath))

	empty := *s
	empty.Path = nil
	assert.True(t, errs.Is(empty.Validate(), errs.ErrCodeMalformedPath))

	_, err := ReadSolution(strings.NewReader("{"))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestExportSolution(t *testing.T) {
	_, s := solve(t, mazetest.Corridor)
	path := filepath.Join(t.TempDir(), "solution.json")
	require.NoError(t, ExportSolution(s, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := ReadSolution(f)
	require.NoError(t, err)
	assert.Equal(t, 4, back.Length)
}

func TestWriteGraph(t *testing.T) {
	g, _ := solve(t, mazetest.RightAngle)
	var buf bytes.Buffer
	require.NoError(t, WriteGraph(&buf, g))
	assert.Contains(t, buf.String(), `"entrance_weight": "unit"`)
}
