package distance

import (
	"gonum.org/v1/gonum/floats"
)

// Euclidean calculates the L2 distance between two points.
// Assumes points are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean calculates the squared L2 distance between two points.
// Assumes points are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Nearest returns the index of the candidate closest to p and its distance.
// Ties resolve to the lowest index. Returns -1 if candidates is empty.
func Nearest(p []float64, candidates [][]float64) (int, float64) {
	best := -1
	bestDist := 0.0
	for i, c := range candidates {
		d := Euclidean(p, c)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// Mean returns the coordinate-wise arithmetic mean of points.
// Returns nil if points is empty.
func Mean(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	dst := make([]float64, len(points[0]))
	for _, p := range points {
		floats.Add(dst, p)
	}
	n := float64(len(points))
	for i := range dst {
		dst[i] /= n
	}
	return dst
}
