package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Iteration int         `json:"iteration"`
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	c, ok := ByName("")
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	in := frame{
		Iteration: 2,
		Centroids: [][]float64{{-9.75, 0.1}, {3.3333333333333335, 7}},
		Labels:    []int{0, 1, 1, 0},
	}

	std := MustMarshal(JSON{}, in)
	fast := MustMarshal(GoJSON{}, in)
	assert.JSONEq(t, string(std), string(fast))

	var out frame
	require.NoError(t, GoJSON{}.Unmarshal(std, &out))
	assert.Equal(t, in, out)

	out = frame{}
	require.NoError(t, JSON{}.Unmarshal(fast, &out))
	assert.Equal(t, in, out)
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustMarshal(nil, make(chan int))
	})
}
