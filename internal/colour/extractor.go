package colour

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidArgument marks inputs outside the documented constraints.
var ErrInvalidArgument = errors.New("invalid argument")

// Extractor defines the interface for color extraction algorithms.
type Extractor interface {
	// Extract extracts a color palette from an image.
	// The count parameter specifies the number of colors to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the color extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans samples the pixel buffer and runs fixed-round k-means.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant extracts the most dominant colours by weight.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmLloyd runs k-means until centroids stop moving.
	AlgorithmLloyd Algorithm = "lloyd"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmDominant,
		AlgorithmLloyd,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm  Algorithm
	ColorCount int
	Iterations int
	Stride     int

	// Seed makes centroid seeding reproducible. Zero uses system entropy.
	Seed uint64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmKMeans,
		ColorCount: DefaultK,
		Iterations: DefaultIterations,
		Stride:     DefaultStride,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("%w: unknown algorithm %q (valid algorithms: %v)", ErrInvalidArgument, c.Algorithm, ValidAlgorithms())
	}
	if c.ColorCount < 1 {
		return fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidArgument, c.ColorCount)
	}
	if c.ColorCount > 256 {
		return fmt.Errorf("%w: colour count too large: %d (maximum: 256)", ErrInvalidArgument, c.ColorCount)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidArgument, c.Iterations)
	}
	if c.Stride < channels || c.Stride%channels != 0 {
		return fmt.Errorf("%w: stride must be a positive multiple of %d, got %d", ErrInvalidArgument, channels, c.Stride)
	}
	return nil
}

// NewExtractor creates a new Extractor for the configured algorithm.
// Returns an error if the configuration is invalid.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmKMeans:
		return NewKMeansExtractor().
			WithIterations(cfg.Iterations).
			WithStride(cfg.Stride).
			WithRand(NewSeededRand(cfg.Seed)), nil
	case AlgorithmDominant:
		return NewDominantExtractor(), nil
	case AlgorithmLloyd:
		return NewLloydExtractor().WithStride(cfg.Stride), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}
