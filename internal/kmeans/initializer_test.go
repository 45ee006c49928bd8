package kmeans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clusterviz/distance"
	"github.com/hupe1980/clusterviz/testutil"
)

func containsPoint(set [][]float64, p []float64) bool {
	for _, q := range set {
		if distance.SquaredEuclidean(p, q) == 0 {
			return true
		}
	}
	return false
}

func TestInitialize_Random(t *testing.T) {
	data := testutil.Line(20)

	for seed := int64(0); seed < 20; seed++ {
		c, err := Initialize(rand.New(rand.NewSource(seed)), data, 5, Random())
		require.NoError(t, err)
		require.Len(t, c, 5)

		seen := map[float64]bool{}
		for _, p := range c {
			assert.True(t, containsPoint(data, p))
			assert.False(t, seen[p[0]], "duplicate centroid %v", p)
			seen[p[0]] = true
		}
	}
}

func TestInitialize_RandomKEqualsN(t *testing.T) {
	data := testutil.Line(6)

	c, err := Initialize(rand.New(rand.NewSource(1)), data, 6, Random())
	require.NoError(t, err)
	for _, p := range data {
		assert.True(t, containsPoint(c, p))
	}
}

func TestInitialize_KMeansPlusPlus(t *testing.T) {
	t.Run("never repeats a chosen point", func(t *testing.T) {
		data := [][]float64{{0, 0}, {5, 0}}
		for seed := int64(0); seed < 20; seed++ {
			c, err := Initialize(rand.New(rand.NewSource(seed)), data, 2, KMeansPlusPlus())
			require.NoError(t, err)
			assert.NotEqual(t, c[0], c[1])
		}
	})

	t.Run("degenerate distribution", func(t *testing.T) {
		data := testutil.Repeat([]float64{1, 1}, 10)
		_, err := Initialize(rand.New(rand.NewSource(1)), data, 3, KMeansPlusPlus())
		assert.ErrorIs(t, err, ErrDegenerateSeeding)
	})

	t.Run("large coordinates", func(t *testing.T) {
		data := [][]float64{{0}, {1e200}, {-1e200}}
		for seed := int64(0); seed < 20; seed++ {
			c, err := Initialize(rand.New(rand.NewSource(seed)), data, 3, KMeansPlusPlus())
			require.NoError(t, err)
			for _, p := range data {
				assert.True(t, containsPoint(c, p), "seed %d: missing %v in %v", seed, p, c)
			}
		}
	})

	t.Run("duplicates with enough distinct points", func(t *testing.T) {
		data := append(testutil.Repeat([]float64{0, 0}, 5), []float64{1, 1})
		c, err := Initialize(rand.New(rand.NewSource(3)), data, 2, KMeansPlusPlus())
		require.NoError(t, err)
		assert.True(t, containsPoint(c, []float64{0, 0}))
		assert.True(t, containsPoint(c, []float64{1, 1}))
	})
}

func TestPickCumulative(t *testing.T) {
	weights := []float64{0, 0.25, 0, 0.75}
	cumulative := []float64{0, 0.25, 0.25, 1}

	assert.Equal(t, 1, pickCumulative(cumulative, weights, 0))
	assert.Equal(t, 1, pickCumulative(cumulative, weights, 0.1))
	assert.Equal(t, 1, pickCumulative(cumulative, weights, 0.25))
	assert.Equal(t, 3, pickCumulative(cumulative, weights, 0.26))
	assert.Equal(t, 3, pickCumulative(cumulative, weights, 0.999))

	// Rounding left the total short of the draw.
	short := []float64{0.3, 0.6, 0.9999999, 0.9999999}
	assert.Equal(t, 2, pickCumulative(short, []float64{0.3, 0.3, 0.3999999, 0}, 0.99999999))
}

func TestInitialize_FarthestFirst(t *testing.T) {
	data := [][]float64{{0}, {1}, {2}, {10}, {10}}

	for seed := int64(0); seed < 20; seed++ {
		c, err := Initialize(rand.New(rand.NewSource(seed)), data, 2, FarthestFirst())
		require.NoError(t, err)
		require.Len(t, c, 2)

		if c[0][0] == 10 {
			assert.Equal(t, []float64{0}, c[1])
		} else {
			assert.Equal(t, []float64{10}, c[1])
		}
	}
}

func TestInitialize_FarthestFirstThreeCorners(t *testing.T) {
	data := [][]float64{{0, 0}, {1, 0}, {0, 1}, {10, 10}, {-10, 10}}

	c, err := Initialize(rand.New(rand.NewSource(8)), data, 3, FarthestFirst())
	require.NoError(t, err)

	// Every later pick maximizes the distance to the earlier picks.
	for i := 1; i < len(c); i++ {
		_, picked := distance.Nearest(c[i], c[:i])
		for _, p := range data {
			_, d := distance.Nearest(p, c[:i])
			assert.LessOrEqual(t, d, picked)
		}
	}
}

func TestInitialize_Manual(t *testing.T) {
	seed := [][]float64{{100, 100}, {-100, -100}}

	c, err := Initialize(nil, fourCorners(), 2, Manual(seed))
	require.NoError(t, err)
	assert.Equal(t, seed, c)

	c[0][0] = 0
	assert.Equal(t, 100.0, seed[0][0])
}

func TestInitialize_Errors(t *testing.T) {
	_, err := Initialize(nil, nil, 1, Random())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Initialize(nil, fourCorners(), 3, Manual([][]float64{{0, 0}}))
	assert.ErrorIs(t, err, ErrInvalidCentroidCount)

	_, err = Initialize(nil, fourCorners(), 5, FarthestFirst())
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name     string
		expected Strategy
	}{
		{"random", StrategyRandom},
		{"RANDOM", StrategyRandom},
		{"k-means++", StrategyKMeansPlusPlus},
		{"kmeans++", StrategyKMeansPlusPlus},
		{"farthest", StrategyFarthestFirst},
		{"farthest-first", StrategyFarthestFirst},
		{" Manual ", StrategyManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			init, err := ParseStrategy(tt.name, [][]float64{{1, 2}})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, init.Strategy())
		})
	}

	init, err := ParseStrategy("manual", [][]float64{{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}}, init.Centroids())

	init, err = ParseStrategy("random", [][]float64{{1, 2}})
	require.NoError(t, err)
	assert.Nil(t, init.Centroids())

	_, err = ParseStrategy("spectral", nil)
	assert.ErrorIs(t, err, ErrInvalidInitializationStrategy)
}
