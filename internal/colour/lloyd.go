package colour

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	imgutil "github.com/jmylchreest/pixelpalette/internal/image"
	"github.com/jmylchreest/pixelpalette/internal/security"
)

// LloydExtractor clusters the same stride-sampled points as KMeansExtractor
// but iterates until the centroids settle instead of for a fixed number of rounds.
type LloydExtractor struct {
	stride int
}

// NewLloydExtractor creates a LloydExtractor with the default stride.
func NewLloydExtractor() *LloydExtractor {
	return &LloydExtractor{stride: DefaultStride}
}

// WithStride sets the sampling stride in buffer elements.
func (e *LloydExtractor) WithStride(stride int) *LloydExtractor {
	e.stride = stride
	return e
}

// Extract implements Extractor. When the image has fewer sampled points than
// count, the palette is shortened to the number of points.
func (e *LloydExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidArgument, count)
	}

	buf := imgutil.PixelBuffer(img)
	if err := ValidateBuffer(buf, e.stride); err != nil {
		return nil, err
	}
	points := Sample(buf, e.stride)
	if len(points) == 0 {
		return NewPaletteWithPopulations([]RGB{{}}, []int{0}), nil
	}

	dataset := make(clusters.Observations, len(points))
	for i, p := range points {
		dataset[i] = clusters.Coordinates{float64(p.R), float64(p.G), float64(p.B)}
	}

	cc, err := kmeans.New().Partition(dataset, min(count, len(dataset)))
	if err != nil {
		return nil, fmt.Errorf("failed to partition colours: %w", err)
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	colours := make([]RGB, 0, len(cc))
	populations := make([]int, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		colours = append(colours, RGB{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
		})
		populations = append(populations, len(c.Observations))
	}

	return NewPaletteWithPopulations(colours, populations), nil
}

// channel rounds and clamps a float channel value to [0, 255].
func channel(v float64) uint8 {
	return security.SafeUint8(int(math.Round(v)))
}
