package colour

import (
	"fmt"
	"image"
	"math/rand/v2"
	"slices"

	imgutil "github.com/jmylchreest/pixelpalette/internal/image"
)

const (
	// DefaultK is the number of colours extracted when none is requested.
	DefaultK = 5

	// DefaultIterations is the fixed number of k-means rounds.
	DefaultIterations = 10
)

// Rand is the source of randomness used to seed centroids.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the process-wide generator, seeded from system entropy.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewSeededRand returns a deterministic generator for seed.
// A zero seed returns a generator backed by system entropy.
func NewSeededRand(seed uint64) Rand {
	if seed == 0 {
		return globalRand{}
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Cluster reduces points to k representative colours with a fixed number of
// k-means rounds and ranks them by population, largest first.
//
// Centroids are seeded by drawing k points uniformly with replacement, so
// duplicates are possible. Every round assigns each point to its nearest
// centroid (lowest index wins ties) and then moves each centroid to the
// rounded mean of its members. A centroid that loses all of its members
// collapses to black. There is no early stop.
//
// An empty point set short-circuits to a single black colour regardless of k.
// A nil rng draws from system entropy. A k below 1 yields an empty palette;
// ExtractorConfig.Validate reports it as ErrInvalidArgument up front.
func Cluster(points []RGB, k, iterations int, rng Rand) *Palette {
	if len(points) == 0 {
		return NewPaletteWithPopulations([]RGB{{}}, []int{0})
	}
	if k < 1 {
		return NewPaletteWithPopulations([]RGB{}, []int{})
	}
	if rng == nil {
		rng = globalRand{}
	}

	centroids := make([]RGB, k)
	for i := range centroids {
		centroids[i] = points[rng.IntN(len(points))]
	}

	assignments := make([]int, len(points))
	for range iterations {
		assign(points, centroids, assignments)
		centroids = recalculateCentroids(points, assignments, k)
	}

	// Ranking needs a real assignment even when no rounds ran.
	if iterations <= 0 {
		assign(points, centroids, assignments)
	}

	populations := make([]int, k)
	for _, c := range assignments {
		populations[c]++
	}

	return rank(centroids, populations)
}

// assign stores the index of the nearest centroid for every point.
func assign(points, centroids []RGB, assignments []int) {
	for i, p := range points {
		assignments[i] = findNearestCentroid(p, centroids)
	}
}

// findNearestCentroid returns the index of the closest centroid; the first wins ties.
func findNearestCentroid(p RGB, centroids []RGB) int {
	nearest := 0
	best := -1
	for i, c := range centroids {
		if d := dist2(p, c); best < 0 || d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves every centroid to the rounded mean of its members.
// Empty clusters divide a zero sum by one and land on black.
func recalculateCentroids(points []RGB, assignments []int, k int) []RGB {
	type sum struct{ r, g, b, n int }
	sums := make([]sum, k)
	for i, p := range points {
		s := &sums[assignments[i]]
		s.r += int(p.R)
		s.g += int(p.G)
		s.b += int(p.B)
		s.n++
	}

	centroids := make([]RGB, k)
	for i, s := range sums {
		n := max(s.n, 1)
		centroids[i] = RGB{
			R: roundDiv(s.r, n),
			G: roundDiv(s.g, n),
			B: roundDiv(s.b, n),
		}
	}
	return centroids
}

// roundDiv returns sum/n rounded half up. Inputs are non-negative channel sums.
func roundDiv(sum, n int) uint8 {
	return uint8((2*sum + n) / (2 * n))
}

// rank orders centroids by population, largest first. Equal populations
// keep their cluster order.
func rank(centroids []RGB, populations []int) *Palette {
	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return populations[b] - populations[a]
	})

	colours := make([]RGB, len(order))
	counts := make([]int, len(order))
	for i, idx := range order {
		colours[i] = centroids[idx]
		counts[i] = populations[idx]
	}
	return NewPaletteWithPopulations(colours, counts)
}

// KMeansExtractor implements color extraction using stride sampling and
// fixed-round k-means clustering.
type KMeansExtractor struct {
	iterations int
	stride     int
	rng        Rand
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor() *KMeansExtractor {
	return &KMeansExtractor{
		iterations: DefaultIterations,
		stride:     DefaultStride,
		rng:        globalRand{},
	}
}

// WithIterations sets the number of clustering rounds.
func (e *KMeansExtractor) WithIterations(n int) *KMeansExtractor {
	e.iterations = n
	return e
}

// WithStride sets the sampling stride in buffer elements.
func (e *KMeansExtractor) WithStride(stride int) *KMeansExtractor {
	e.stride = stride
	return e
}

// WithRand sets the centroid seeding source.
func (e *KMeansExtractor) WithRand(rng Rand) *KMeansExtractor {
	if rng != nil {
		e.rng = rng
	}
	return e
}

// Extract extracts colors from an image using k-means clustering.
// The palette carries the population of every cluster.
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
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
	return Cluster(points, count, e.iterations, e.rng), nil
}
