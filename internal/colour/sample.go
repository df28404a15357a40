package colour

import "fmt"

const (
	// DefaultStride samples every 4th pixel of the flattened RGBA buffer.
	DefaultStride = 16

	// AlphaThreshold is the minimum alpha a pixel needs to be sampled.
	AlphaThreshold = 16

	// channels per pixel in a PixelBuffer (R, G, B, A).
	channels = 4
)

// Sample walks a flat RGBA buffer in steps of stride elements and returns the
// colour of every visited pixel whose alpha is at least AlphaThreshold.
// Points are returned in buffer scan order. Because stride walks the flat
// array rather than rows and columns, the pattern is independent of image width.
//
// A buffer shorter than one pixel yields no points. A stride below 1 falls back
// to DefaultStride.
func Sample(buf []uint8, stride int) []RGB {
	if stride < 1 {
		stride = DefaultStride
	}
	if len(buf) < channels {
		return nil
	}

	points := make([]RGB, 0, len(buf)/stride+1)
	for i := 0; i+3 < len(buf); i += stride {
		if buf[i+3] < AlphaThreshold {
			continue
		}
		points = append(points, RGB{R: buf[i], G: buf[i+1], B: buf[i+2]})
	}

	return points
}

// ValidateBuffer checks that a buffer and stride are well formed for Sample.
// Sample itself never fails; callers that want strict input checking call this first.
func ValidateBuffer(buf []uint8, stride int) error {
	if len(buf)%channels != 0 {
		return fmt.Errorf("%w: buffer length %d is not a multiple of %d", ErrInvalidArgument, len(buf), channels)
	}
	if stride < channels || stride%channels != 0 {
		return fmt.Errorf("%w: stride must be a positive multiple of %d, got %d", ErrInvalidArgument, channels, stride)
	}
	return nil
}
