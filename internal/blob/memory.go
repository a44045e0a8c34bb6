package blob

import (
	"context"
	"sync"
)

// MemoryStore keeps the blob in process memory. Used by tests and for
// ephemeral runs where persistence across restarts does not matter.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// Writes counts successful Set calls, for tests asserting persistence
	// happens per transition.
	writes int

	// FailWrites forces Set to return an error, for tests exercising the
	// silent-persist-failure path.
	FailWrites error
}

// NewMemoryStore returns an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored blob or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, ErrNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Set stores a copy of the blob.
func (s *MemoryStore) Set(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.set = true
	s.writes++
	return nil
}

// Writes reports how many successful writes have happened.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
