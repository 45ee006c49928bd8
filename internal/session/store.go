package session

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/clusterviz/internal/resource"
)

var (
	// ErrNotFound is returned when no dataset is stored under a session ID.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for session IDs that are not UUIDs.
	ErrInvalidID = errors.New("invalid session id")

	// ErrTooLarge is returned when a dataset alone exceeds the store capacity.
	ErrTooLarge = errors.New("dataset exceeds session store capacity")
)

// Session is an immutable dataset snapshot owned by the store.
// Callers must not modify Data.
type Session struct {
	ID         string
	Data       [][]float64
	Generation uint64
	CreatedAt  time.Time
}

// Size returns the number of bytes accounted for the session's coordinates.
func (s *Session) Size() int64 {
	return datasetSize(s.Data)
}

// Store is an LRU of sessions bounded by total dataset bytes.
type Store struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	rc        *resource.Controller

	generation atomic.Uint64
	hits       atomic.Int64
	misses     atomic.Int64
	evictions  atomic.Int64
}

// NewStore creates a session store with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewStore(capacity int64, rc *resource.Controller) *Store {
	return &Store{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session stored under id.
func (s *Store) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[id]; ok {
		s.hits.Add(1)
		s.evictList.MoveToFront(ent)
		return ent.Value.(*Session), nil
	}
	s.misses.Add(1)
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Put stores data under id, replacing any previous dataset. An empty id
// allocates a new one. The store takes a private copy of data.
func (s *Store) Put(id string, data [][]float64) (*Session, error) {
	if id == "" {
		id = NewID()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	size := datasetSize(data)
	if size > s.capacity {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, size, s.capacity)
	}

	sess := &Session{
		ID:         id,
		Data:       copyDataset(data),
		Generation: s.generation.Add(1),
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[id]; ok {
		s.removeElement(ent)
	}

	// Evict to make space in local capacity first so memory is released to
	// the controller before we try to acquire it back.
	for s.size+size > s.capacity {
		ent := s.evictList.Back()
		if ent == nil {
			break
		}
		s.removeElement(ent)
		s.evictions.Add(1)
	}

	for !s.rc.TryAcquireMemory(size) {
		ent := s.evictList.Back()
		if ent == nil {
			return nil, fmt.Errorf("session %s: %w", id, resource.ErrMemoryLimitExceeded)
		}
		s.removeElement(ent)
		s.evictions.Add(1)
	}

	s.items[id] = s.evictList.PushFront(sess)
	s.size += size
	return sess, nil
}

// Delete removes the session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.items[id]
	if !ok {
		return false
	}
	s.removeElement(ent)
	return true
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictList.Len()
}

// Size returns the current size of the store in bytes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Stats reports lookup hits, misses and evictions.
func (s *Store) Stats() (hits, misses, evictions int64) {
	return s.hits.Load(), s.misses.Load(), s.evictions.Load()
}

// Close drops every session and returns its memory to the controller.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.evictList.Len() > 0 {
		s.removeElement(s.evictList.Back())
	}
	return nil
}

func (s *Store) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	sess := e.Value.(*Session)
	delete(s.items, sess.ID)
	size := sess.Size()
	s.size -= size
	s.rc.ReleaseMemory(size)
}

func datasetSize(data [][]float64) int64 {
	var n int64
	for _, p := range data {
		n += int64(len(p)) * 8
	}
	return n
}

func copyDataset(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, p := range data {
		out[i] = append([]float64(nil), p...)
	}
	return out
}
