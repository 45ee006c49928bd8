package kmeans

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/clusterviz/distance"
)

// Initialize validates the inputs and produces the starting centroid set.
// The returned points never alias the dataset.
func Initialize(rng *rand.Rand, dataset [][]float64, k int, init Init) ([][]float64, error) {
	if err := validate(dataset, k, init); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = newRand()
	}
	return initialize(rng, dataset, k, init)
}

func initialize(rng *rand.Rand, data [][]float64, k int, init Init) ([][]float64, error) {
	switch init.strategy {
	case StrategyRandom:
		return randomInit(rng, data, k), nil
	case StrategyKMeansPlusPlus:
		return kmeansPlusPlusInit(rng, data, k)
	case StrategyFarthestFirst:
		return farthestFirstInit(rng, data, k), nil
	case StrategyManual:
		return clonePoints(init.centroids), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitializationStrategy, init.strategy)
	}
}

// randomInit picks k distinct points uniformly without replacement.
func randomInit(rng *rand.Rand, data [][]float64, k int) [][]float64 {
	perm := rng.Perm(len(data))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = clonePoint(data[perm[i]])
	}
	return centroids
}

// kmeansPlusPlusInit draws each further centroid with probability
// proportional to the squared distance to its nearest chosen centroid.
func kmeansPlusPlusInit(rng *rand.Rand, data [][]float64, k int) ([][]float64, error) {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(data[rng.Intn(len(data))]))

	weights := make([]float64, len(data))
	cumulative := make([]float64, len(data))
	for len(centroids) < k {
		for i, p := range data {
			_, weights[i] = distance.Nearest(p, centroids)
		}
		// Distances are normalized by the largest before squaring so that
		// coordinates beyond 1e154 do not overflow the sum.
		farthest := floats.Max(weights)
		if farthest == 0 {
			return nil, fmt.Errorf("kmeans: seeding centroid %d of %d: %w", len(centroids)+1, k, ErrDegenerateSeeding)
		}
		if math.IsInf(farthest, 1) {
			return nil, fmt.Errorf("kmeans: seeding centroid %d of %d: distance overflows: %w", len(centroids)+1, k, ErrDegenerateSeeding)
		}
		for i, d := range weights {
			d /= farthest
			weights[i] = d * d
		}
		floats.Scale(1/floats.Sum(weights), weights)
		floats.CumSum(cumulative, weights)

		idx := pickCumulative(cumulative, weights, rng.Float64())
		centroids = append(centroids, clonePoint(data[idx]))
	}
	return centroids, nil
}

// pickCumulative returns the first index whose cumulative probability is >= r.
// Zero-weight entries are never returned, and rounding that leaves the final
// cumulative sum below r resolves to the last positive-weight index.
func pickCumulative(cumulative, weights []float64, r float64) int {
	idx := sort.SearchFloat64s(cumulative, r)
	for idx < len(weights) && weights[idx] == 0 {
		idx++
	}
	if idx < len(weights) {
		return idx
	}
	idx = len(weights) - 1
	for idx > 0 && weights[idx] == 0 {
		idx--
	}
	return idx
}

// farthestFirstInit greedily picks the point farthest from all chosen
// centroids. Ties go to the first point in dataset order.
func farthestFirstInit(rng *rand.Rand, data [][]float64, k int) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(data[rng.Intn(len(data))]))

	dists := make([]float64, len(data))
	for len(centroids) < k {
		for i, p := range data {
			_, dists[i] = distance.Nearest(p, centroids)
		}
		centroids = append(centroids, clonePoint(data[floats.MaxIdx(dists)]))
	}
	return centroids
}

