package colour

import (
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"
)

// DominantExtractor picks the most heavily weighted colours of an image.
// It does not report populations.
type DominantExtractor struct{}

// NewDominantExtractor creates a new DominantExtractor.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{}
}

// Extract implements Extractor. The palette may hold fewer than count colours
// when the image has little variety; an image with no usable colour yields the
// single black fallback.
func (e *DominantExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidArgument, count)
	}

	found := dominantcolor.FindWeight(img, count)
	if len(found) == 0 {
		return NewPalette([]RGB{{}}), nil
	}

	colours := make([]RGB, len(found))
	for i, c := range found {
		colours[i] = RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}
	}
	return NewPalette(colours), nil
}
