package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Rand returns a fresh *rand.Rand seeded with the initial seed.
// Two calls return generators that produce identical streams.
func (r *RNG) Rand() *rand.Rand {
	return rand.New(rand.NewSource(r.seed))
}

// UniformPoints generates num points of the given dimension with coordinates
// in [minVal, maxVal). Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dimensions int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	data := make([]float64, num*dimensions)
	points := make([][]float64, num)

	for i := range num {
		p := data[i*dimensions : (i+1)*dimensions]
		for j := range p {
			p[j] = minVal + r.rand.Float64()*span
		}
		points[i] = p
	}

	return points
}

// ClusteredPoints generates points scattered around random centers in [-10, 10).
// Point i belongs to blob i%clusters; spread is the Gaussian standard deviation.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64) [][]float64 {
	centers := r.UniformPoints(clusters, dim, -10, 10)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		center := centers[i%clusters]
		p := data[i*dim : (i+1)*dim]
		for j := range dim {
			p[j] = center[j] + r.rand.NormFloat64()*spread
		}
		points[i] = p
	}

	return points
}

// Line returns n one-dimensional points 0, 1, ..., n-1.
func Line(n int) [][]float64 {
	points := make([][]float64, n)
	for i := range n {
		points[i] = []float64{float64(i)}
	}
	return points
}

// Repeat returns n copies of p.
func Repeat(p []float64, n int) [][]float64 {
	points := make([][]float64, n)
	for i := range n {
		points[i] = append([]float64(nil), p...)
	}
	return points
}
