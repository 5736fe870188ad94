package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSnapshot is returned by SnapshotStore.Load when no snapshot exists
// for the session.
var ErrNoSnapshot = errors.New("no cart snapshot")

// SnapshotStore persists the serialised cart between page navigations. The
// snapshot is always the full cart, written on every mutation.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process SnapshotStore for tests and single-instance
// deployments without Redis.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.snapshots[sessionID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.snapshots[sessionID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, sessionID)
	return nil
}
