package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/pixelpalette/internal/colour"
)

func testPalette() *colour.Palette {
	return colour.NewPalette([]colour.RGB{
		{R: 255},
		{G: 255},
		{B: 255},
	})
}

func TestBandWidth(t *testing.T) {
	tests := []struct {
		width, n, want int
	}{
		{width: 1500, n: 5, want: 300},
		{width: 1000, n: 3, want: 333},
		{width: 10, n: 1, want: 10},
		{width: 10, n: 0, want: 0},
	}
	for _, tt := range tests {
		if got := BandWidth(tt.width, tt.n); got != tt.want {
			t.Errorf("BandWidth(%d, %d) = %d, want %d", tt.width, tt.n, got, tt.want)
		}
	}
}

func TestRenderBands(t *testing.T) {
	p := testPalette()
	img, err := Render(p, Options{Width: 1000, Height: 100})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, 1000, 100) {
		t.Fatalf("Render() bounds = %v, want 1000x100", img.Bounds())
	}

	bw := BandWidth(1000, p.Len())
	for i, c := range p.Colours {
		want := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		for _, x := range []int{i * bw, (i+1)*bw - 1} {
			for _, y := range []int{0, 99} {
				if got := img.RGBAAt(x, y); got != want {
					t.Errorf("band %d pixel (%d,%d) = %v, want %v", i, x, y, got, want)
				}
			}
		}
	}

	// 1000 - 3*333 leaves one column unpainted.
	if got := img.RGBAAt(999, 0); got.A != 0 {
		t.Errorf("remainder column = %v, want transparent", got)
	}
}

func TestRenderLabels(t *testing.T) {
	p := colour.NewPalette([]colour.RGB{{}, {}})
	img, err := Render(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	bw := BandWidth(DefaultWidth, 2)
	for i := range 2 {
		if !hasLightPixel(img, image.Rect(i*bw+labelInsetX, DefaultHeight-labelBaseline-labelSize, (i+1)*bw, DefaultHeight-labelBaseline+1)) {
			t.Errorf("band %d has no label pixels", i)
		}
	}

	// Labels stay near the bottom.
	if hasLightPixel(img, image.Rect(0, 0, DefaultWidth, DefaultHeight/2)) {
		t.Error("label pixels found in the top half")
	}
}

func hasLightPixel(img *image.RGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).R > 128 {
				return true
			}
		}
	}
	return false
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(nil, DefaultOptions()); err == nil {
		t.Error("expected error for nil palette")
	}
	if _, err := Render(colour.NewPalette(nil), DefaultOptions()); err == nil {
		t.Error("expected error for empty palette")
	}
	if _, err := Render(testPalette(), Options{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testPalette(), Options{Width: 30, Height: 10}); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 10 {
		t.Errorf("decoded bounds = %v, want 30x10", img.Bounds())
	}
	if got := colour.ToRGB(img.At(25, 5)); got != (colour.RGB{B: 255}) {
		t.Errorf("decoded pixel = %+v, want blue", got)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	if err := SavePNG(path, testPalette(), DefaultOptions()); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("SavePNG() wrote an empty file")
	}

	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), testPalette(), DefaultOptions()); err == nil {
		t.Error("expected error for missing directory")
	}
}
