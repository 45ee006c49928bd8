package pointcloud

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Default(t *testing.T) {
	cloud, err := Generate(rand.New(rand.NewSource(1)), DefaultConfig())
	require.NoError(t, err)

	require.Len(t, cloud.Points, 300)
	for _, p := range cloud.Points {
		require.Len(t, p, 2)
		for _, v := range p {
			assert.GreaterOrEqual(t, v, -10.0)
			assert.Less(t, v, 10.0)
		}
	}
	assert.Equal(t, Bounds{Min: []float64{-10, -10}, Max: []float64{10, 10}}, cloud.Domain)
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{Points: 10, Features: 3, Scale: 1, Offset: 0}

	a, err := Generate(rand.New(rand.NewSource(7)), cfg)
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(7)), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Points, b.Points)
}

func TestGenerate_RowsDoNotOverlap(t *testing.T) {
	cloud, err := Generate(rand.New(rand.NewSource(1)), Config{Points: 2, Features: 2, Scale: 1})
	require.NoError(t, err)

	cloud.Points[0] = append(cloud.Points[0], 99)
	assert.NotEqual(t, 99.0, cloud.Points[1][0])
}

func TestGenerate_InvalidConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no points", Config{Points: 0, Features: 2, Scale: 1}},
		{"no features", Config{Points: 1, Features: 0, Scale: 1}},
		{"zero scale", Config{Points: 1, Features: 1, Scale: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(rng, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestExtent(t *testing.T) {
	b := Extent([][]float64{{1, -2}, {-3, 4}, {0, 0}})
	assert.Equal(t, []float64{-3, -2}, b.Min)
	assert.Equal(t, []float64{1, 4}, b.Max)

	assert.Equal(t, Bounds{}, Extent(nil))
}
