package io

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registered raster decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	errs "github.com/matzehuels/mazeroute/pkg/errors"
	"github.com/matzehuels/mazeroute/pkg/grid"
)

// MaxPixels bounds the size of a decoded maze.
const MaxPixels = 16 << 20

// Format identifies how a maze was encoded.
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
)

// Decode reads a maze from r. Raster formats are recognised by their
// magic bytes; anything else is parsed as a text picture. threshold is
// passed to grid.FromImage and ignored for text.
func Decode(r io.Reader, threshold uint8) (*grid.Grid, Format, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(512)
	if _, _, err := image.DecodeConfig(bytes.NewReader(head)); errors.Is(err, image.ErrFormat) {
		g, err := DecodeText(br)
		return g, FormatText, err
	}
	g, err := DecodeImage(br, threshold)
	return g, FormatImage, err
}

// DecodeImage decodes a raster maze.
func DecodeImage(r io.Reader, threshold uint8) (*grid.Grid, error) {
	var buf bytes.Buffer
	tee := io.TeeReader(r, &buf)
	cfg, name, err := image.DecodeConfig(tee)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode image header")
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, errs.New(errs.ErrCodeTooLarge, "%s image is %dx%d, limit is %d pixels", name, cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(io.MultiReader(&buf, r))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s image", name)
	}
	return grid.FromImage(img, threshold)
}

// DecodeText parses a text maze.
func DecodeText(r io.Reader) (*grid.Grid, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPixels+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(data) > MaxPixels {
		return nil, errs.New(errs.ErrCodeTooLarge, "text maze exceeds %d bytes", MaxPixels)
	}
	return grid.Parse(strings.ReplaceAll(string(data), "\r\n", "\n"))
}

// Load reads the maze file at path.
func Load(path string, threshold uint8) (*grid.Grid, error) {
	if err := errs.ValidateMazePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.ErrCodeFileNotFound, "maze not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return DecodeText(f)
	}
	return DecodeImage(f, threshold)
}
