// Package testutil provides testing utilities for clusterviz.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating reproducible point clouds and
// seeded random sources.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(300, 2, -10, 10)
//	blobs := rng.ClusteredPoints(300, 2, 3, 0.5)
//
// # Seeded Engines
//
//	h, _ := kmeans.New(points, 3, kmeans.Random(), 100, rng.Rand())
package testutil
