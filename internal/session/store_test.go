package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clusterviz/internal/resource"
)

// points returns n one-dimensional points, 8 bytes each.
func points(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = []float64{float64(i)}
	}
	return out
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore(1024, nil)

	sess, err := s.Put("", points(3))
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, int64(24), sess.Size())

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, int64(24), s.Size())
	assert.Equal(t, 1, s.Len())

	hits, misses, _ := s.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestStore_PutCopies(t *testing.T) {
	s := NewStore(1024, nil)
	data := points(2)

	sess, err := s.Put("", data)
	require.NoError(t, err)

	data[0][0] = 42
	assert.Equal(t, 0.0, sess.Data[0][0])
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(1024, nil)

	first, err := s.Put("", points(4))
	require.NoError(t, err)

	second, err := s.Put(first.ID, points(2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Greater(t, second.Generation, first.Generation)

	got, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Data, 2)
	assert.Equal(t, int64(16), s.Size())
	assert.Equal(t, 1, s.Len())
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore(1024, nil)

	_, err := s.Get(NewID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.Put("not-a-uuid", points(1))
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(64, nil) // room for two 4-point datasets

	a, err := s.Put("", points(4))
	require.NoError(t, err)
	b, err := s.Put("", points(4))
	require.NoError(t, err)

	// Touch a so b becomes the eviction candidate.
	_, err = s.Get(a.ID)
	require.NoError(t, err)

	c, err := s.Put("", points(4))
	require.NoError(t, err)

	_, err = s.Get(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(a.ID)
	assert.NoError(t, err)
	_, err = s.Get(c.ID)
	assert.NoError(t, err)

	_, _, evictions := s.Stats()
	assert.Equal(t, int64(1), evictions)
}

func TestStore_TooLarge(t *testing.T) {
	s := NewStore(16, nil)

	_, err := s.Put("", points(3))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ResourceAccounting(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 40})
	s := NewStore(1024, rc)

	a, err := s.Put("", points(3))
	require.NoError(t, err)
	assert.Equal(t, int64(24), rc.MemoryUsage())

	// The controller has room for 16 more bytes; a is evicted to fit.
	b, err := s.Put("", points(3))
	require.NoError(t, err)
	assert.Equal(t, int64(24), rc.MemoryUsage())

	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, s.Delete(b.ID))
	assert.False(t, s.Delete(b.ID))
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestStore_ResourceExhausted(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
	s := NewStore(1024, rc)

	_, err := s.Put("", points(3))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestStore_Close(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	s := NewStore(1024, rc)

	for range 3 {
		_, err := s.Put("", points(2))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(48), rc.MemoryUsage())

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}
