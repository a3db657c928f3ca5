package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"slices"
	"strings"

	"golang.org/x/image/draw"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/grid"
)

// MaxScale bounds the upscaling factor.
const MaxScale = 32

// Palette maps cell states to colors.
type Palette struct {
	Name string
	Wall color.RGBA
	Open color.RGBA
	Mark color.RGBA
}

// Built-in palettes.
var (
	// Classic matches the usual two-tone maze with red marks.
	Classic = Palette{
		Name: "classic",
		Wall: color.RGBA{0, 0, 0, 255},
		Open: color.RGBA{255, 255, 255, 255},
		Mark: color.RGBA{255, 0, 0, 255},
	}
	Blueprint = Palette{
		Name: "blueprint",
		Wall: color.RGBA{16, 42, 92, 255},
		Open: color.RGBA{230, 238, 250, 255},
		Mark: color.RGBA{255, 170, 0, 255},
	}
	Mono = Palette{
		Name: "mono",
		Wall: color.RGBA{0, 0, 0, 255},
		Open: color.RGBA{255, 255, 255, 255},
		Mark: color.RGBA{128, 128, 128, 255},
	}
)

var palettes = map[string]Palette{
	Classic.Name:   Classic,
	Blueprint.Name: Blueprint,
	Mono.Name:      Mono,
}

// PaletteNames lists the built-in palettes in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// LookupPalette returns a built-in palette. The empty name is Classic.
func LookupPalette(name string) (Palette, error) {
	if name == "" {
		return Classic, nil
	}
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return Palette{}, errs.New(errs.ErrCodeInvalidConfig, "unknown palette %q (want %s)", name, strings.Join(PaletteNames(), ", "))
	}
	return p, nil
}

// Image paints o one pixel per cell.
func Image(o *grid.Overlay, pal Palette) *image.Paletted {
	g := o.Grid()
	img := image.NewPaletted(image.Rect(0, 0, g.Width(), g.Height()), color.Palette{pal.Wall, pal.Open, pal.Mark})
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			// Palette indices follow grid.Cell: Wall, Open, Marked.
			img.SetColorIndex(c, r, uint8(o.State(grid.Point{Row: r, Col: c})))
		}
	}
	return img
}

// Scale enlarges img by factor with nearest-neighbour sampling. A factor of
// one returns img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

type options struct {
	palette Palette
	scale   int
}

// Option configures PNG rendering.
type Option func(*options)

// WithPalette selects the colors.
func WithPalette(p Palette) Option {
	return func(o *options) { o.palette = p }
}

// WithScale sets the integer upscaling factor (default 1).
func WithScale(n int) Option {
	return func(o *options) { o.scale = n }
}

// WritePNG encodes o as PNG to w.
func WritePNG(w io.Writer, o *grid.Overlay, opts ...Option) error {
	cfg := options{palette: Classic, scale: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.scale < 1 || cfg.scale > MaxScale {
		return errs.New(errs.ErrCodeInvalidConfig, "scale %d out of range [1, %d]", cfg.scale, MaxScale)
	}
	img := Scale(Image(o, cfg.palette), cfg.scale)
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNG returns o encoded as PNG.
func PNG(o *grid.Overlay, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, o, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
