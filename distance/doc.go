// Package distance provides the Euclidean geometry used by the clustering engine.
//
// All functions operate on float64 coordinate slices and delegate the
// arithmetic to gonum's floats package.
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	d2 := distance.SquaredEuclidean(a, b)
//	centroid := distance.Mean(points)
package distance
