package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.UniformPoints(8, 2, -10, 10)

	assert.Equal(t, 8, len(p))
	assert.Equal(t, 2, len(p[0]))
	for _, pt := range p {
		for _, v := range pt {
			assert.GreaterOrEqual(t, v, -10.0)
			assert.Less(t, v, 10.0)
		}
	}
}

func TestClusteredPoints(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.ClusteredPoints(30, 3, 3, 0.1)

	assert.Equal(t, 30, len(p))
	assert.Equal(t, 3, len(p[0]))
}

func TestUniformPoints_Deterministic(t *testing.T) {
	a := NewRNG(42).UniformPoints(4, 2, 0, 1)
	b := NewRNG(42).UniformPoints(4, 2, 0, 1)
	assert.Equal(t, a, b)
}

func TestRand(t *testing.T) {
	rng := NewRNG(42)
	assert.Equal(t, rng.Rand().Int63(), rng.Rand().Int63())
}

func TestLineAndRepeat(t *testing.T) {
	assert.Equal(t, [][]float64{{0}, {1}, {2}}, Line(3))

	r := Repeat([]float64{1, 2}, 2)
	assert.Equal(t, [][]float64{{1, 2}, {1, 2}}, r)
	r[0][0] = 9
	assert.Equal(t, 1.0, r[1][0])
}
