package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestExtractorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExtractorConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ExtractorConfig) {}},
		{name: "unknown algorithm", mutate: func(c *ExtractorConfig) { c.Algorithm = "mediancut" }, wantErr: true},
		{name: "zero colours", mutate: func(c *ExtractorConfig) { c.ColorCount = 0 }, wantErr: true},
		{name: "too many colours", mutate: func(c *ExtractorConfig) { c.ColorCount = 257 }, wantErr: true},
		{name: "negative iterations", mutate: func(c *ExtractorConfig) { c.Iterations = -1 }, wantErr: true},
		{name: "zero iterations", mutate: func(c *ExtractorConfig) { c.Iterations = 0 }},
		{name: "misaligned stride", mutate: func(c *ExtractorConfig) { c.Stride = 10 }, wantErr: true},
		{name: "dominant", mutate: func(c *ExtractorConfig) { c.Algorithm = AlgorithmDominant }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNewExtractor(t *testing.T) {
	for _, alg := range ValidAlgorithms() {
		t.Run(string(alg), func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			cfg.Algorithm = alg

			extractor, err := NewExtractor(cfg)
			if err != nil {
				t.Fatalf("NewExtractor() error = %v", err)
			}
			if extractor == nil {
				t.Fatal("NewExtractor() returned nil")
			}
		})
	}

	if _, err := NewExtractor(ExtractorConfig{Algorithm: "nope", ColorCount: 5, Stride: 16}); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

// quadrants returns an image split into four flat colours of equal area.
func quadrants() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	fills := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}
	for y := range 40 {
		for x := range 40 {
			img.SetRGBA(x, y, fills[(y/20)*2+x/20])
		}
	}
	return img
}

func TestAlgorithmsExtractFlatColours(t *testing.T) {
	for _, alg := range ValidAlgorithms() {
		t.Run(string(alg), func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			cfg.Algorithm = alg
			cfg.ColorCount = 4
			cfg.Stride = 4
			cfg.Seed = 99

			extractor, err := NewExtractor(cfg)
			if err != nil {
				t.Fatalf("NewExtractor() error = %v", err)
			}

			palette, err := extractor.Extract(quadrants(), cfg.ColorCount)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if palette.Len() < 1 || palette.Len() > 4 {
				t.Errorf("Extract() returned %d colours, want 1..4", palette.Len())
			}
			if alg == AlgorithmKMeans && palette.Total() != 1600 {
				t.Errorf("populations sum to %d, want 1600", palette.Total())
			}
		})
	}
}

func TestLloydExtractorFewerPointsThanColours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	palette, err := NewLloydExtractor().WithStride(4).Extract(img, 5)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if palette.Len() != 2 {
		t.Errorf("Extract() returned %d colours, want 2", palette.Len())
	}
}
