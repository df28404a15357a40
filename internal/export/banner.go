// Package export renders palettes to shareable images.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/pixelpalette/internal/colour"
)

const (
	// DefaultWidth is the default banner width in pixels.
	DefaultWidth = 1500

	// DefaultHeight is the default banner height in pixels.
	DefaultHeight = 360

	// DefaultFilename is the file name used when no output path is given.
	DefaultFilename = "palette.png"

	labelSize     = 28
	labelInsetX   = 16
	labelBaseline = 18
)

// Options configures banner rendering.
type Options struct {
	Width  int
	Height int

	// Labels draws each colour's hex code near the bottom of its band.
	Labels bool
}

// DefaultOptions returns a 1500x360 labelled banner.
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Labels: true,
	}
}

var (
	labelFace     font.Face
	labelFaceErr  error
	labelFaceOnce sync.Once
)

// face returns the shared bold monospace face used for labels.
func face() (font.Face, error) {
	labelFaceOnce.Do(func() {
		f, err := opentype.Parse(gomonobold.TTF)
		if err != nil {
			labelFaceErr = fmt.Errorf("failed to parse label font: %w", err)
			return
		}
		labelFace, labelFaceErr = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    labelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return labelFace, labelFaceErr
}

// BandWidth returns the width of each colour band: floor(width / n).
func BandWidth(width, n int) int {
	if n <= 0 {
		return 0
	}
	return width / n
}

// Render draws the palette as vertical bands of equal width, in palette
// order. Columns left over by the integer division stay transparent.
func Render(p *colour.Palette, opts Options) (*image.RGBA, error) {
	if p == nil || p.Len() == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid banner size %dx%d", opts.Width, opts.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	bw := BandWidth(opts.Width, p.Len())

	for i, c := range p.Colours {
		band := image.Rect(i*bw, 0, (i+1)*bw, opts.Height)
		draw.Draw(dst, band, image.NewUniform(c), image.Point{}, draw.Src)
	}

	if !opts.Labels {
		return dst, nil
	}

	f, err := face()
	if err != nil {
		return nil, err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: f,
	}
	for i, c := range p.Colours {
		d.Dot = fixed.P(i*bw+labelInsetX, opts.Height-labelBaseline)
		d.DrawString(c.Hex())
	}

	return dst, nil
}

// WritePNG renders the palette and encodes it as PNG to w.
func WritePNG(w io.Writer, p *colour.Palette, opts Options) error {
	img, err := Render(p, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SavePNG renders the palette to a PNG file at path.
func SavePNG(path string, p *colour.Palette, opts Options) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writeErr := WritePNG(f, p, opts)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return nil
}
