package memory

import (
	"sync"

	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
)

// SnapshotStore keeps the most recent run in process memory.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest domain.Snapshot
	ok     bool
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Store replaces the held snapshot.
func (s *SnapshotStore) Store(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snapshot
	s.ok = true
}

// Latest returns the last stored snapshot; ok is false before the first run.
func (s *SnapshotStore) Latest() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ok
}
