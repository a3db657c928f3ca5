package grid_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/grid"
)

func TestParse(t *testing.T) {
	g, err := grid.Parse(`
#.#
#.#
#.#
`)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, grid.Open, g.At(grid.Point{Row: 0, Col: 1}))
	assert.Equal(t, grid.Wall, g.At(grid.Point{Row: 1, Col: 0}))
	assert.Equal(t, 3, g.OpenCount())
	assert.Equal(t, "#.#\n#.#\n#.#\n", g.String())
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code errs.Code
	}{
		{"TooShort", "###\n#.#", errs.ErrCodeDegenerateGrid},
		{"TooNarrow", "##\n..\n##", errs.ErrCodeDegenerateGrid},
		{"Ragged", "###\n#.\n###", errs.ErrCodeInvalidInput},
		{"BadRune", "###\n#x#\n###", errs.ErrCodeInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.Parse(tc.in)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.code), "got %v, want code %s", err, tc.code)
		})
	}
}

func TestNew_Empty(t *testing.T) {
	_, err := grid.New(nil)
	assert.True(t, errs.Is(err, errs.ErrCodeDegenerateGrid))
}

func TestAt_OutOfBoundsIsWall(t *testing.T) {
	g, err := grid.Parse("...\n...\n...")
	require.NoError(t, err)
	for _, p := range []grid.Point{{Row: -1, Col: 0}, {Row: 0, Col: 3}, {Row: 3, Col: 3}} {
		assert.Equal(t, grid.Wall, g.At(p), "At(%v)", p)
		assert.False(t, g.InBounds(p))
	}
}

func TestIsBorder(t *testing.T) {
	g, err := grid.Parse("....\n....\n....\n....")
	require.NoError(t, err)
	assert.True(t, g.IsBorder(grid.Point{Row: 0, Col: 2}))
	assert.True(t, g.IsBorder(grid.Point{Row: 2, Col: 3}))
	assert.True(t, g.IsBorder(grid.Point{Row: 3, Col: 1}))
	assert.False(t, g.IsBorder(grid.Point{Row: 1, Col: 2}))
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	img.Set(1, 0, color.White)
	img.Set(1, 1, color.RGBA{200, 200, 200, 255})
	img.Set(2, 1, color.RGBA{30, 30, 30, 255})

	g, err := grid.FromImage(img, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, grid.Open, g.At(grid.Point{Row: 0, Col: 1}))
	assert.Equal(t, grid.Open, g.At(grid.Point{Row: 1, Col: 1}))
	assert.Equal(t, grid.Wall, g.At(grid.Point{Row: 1, Col: 2}))

	strict, err := grid.FromImage(img, 250)
	require.NoError(t, err)
	assert.Equal(t, grid.Wall, strict.At(grid.Point{Row: 1, Col: 1}))
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 13, 23))
	img.SetGray(11, 20, color.Gray{Y: 255})

	g, err := grid.FromImage(img, 0)
	require.NoError(t, err)
	assert.Equal(t, grid.Open, g.At(grid.Point{Row: 0, Col: 1}))
	assert.Equal(t, 1, g.OpenCount())
}

func TestOverlay_MarkIsIdempotent(t *testing.T) {
	g, err := grid.Parse("#.#\n#.#\n#.#")
	require.NoError(t, err)
	o := grid.NewOverlay(g)

	p := grid.Point{Row: 1, Col: 1}
	assert.True(t, o.Mark(p))
	assert.False(t, o.Mark(p), "second mark must be a no-op")
	assert.Equal(t, grid.Marked, o.State(p))
	assert.Equal(t, 1, o.Count())

	assert.False(t, o.Mark(grid.Point{Row: 1, Col: 0}), "walls are never marked")
	assert.False(t, o.Mark(grid.Point{Row: 9, Col: 9}), "out of bounds is never marked")
	assert.Equal(t, grid.Wall, o.State(grid.Point{Row: 1, Col: 0}))
	assert.Equal(t, grid.Open, o.State(grid.Point{Row: 0, Col: 1}))
	assert.Equal(t, "#.#\n#*#\n#.#\n", o.String())
}

func TestOverlay_Clone(t *testing.T) {
	g, err := grid.Parse("...\n...\n...")
	require.NoError(t, err)
	o := grid.NewOverlay(g)
	o.Mark(grid.Point{Row: 0, Col: 0})

	c := o.Clone()
	c.Mark(grid.Point{Row: 2, Col: 2})

	assert.Equal(t, 1, o.Count())
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, []grid.Point{{Row: 0, Col: 0}, {Row: 2, Col: 2}}, c.Marked())
}

func TestCellTraversable(t *testing.T) {
	assert.False(t, grid.Wall.Traversable())
	assert.True(t, grid.Open.Traversable())
	assert.True(t, grid.Marked.Traversable())
	assert.Equal(t, "marked", grid.Marked.String())
}
