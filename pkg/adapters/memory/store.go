package memory

import (
	"context"
	"sync"

	"github.com/lorekeep/loom/pkg/ports"
	"github.com/lorekeep/loom/pkg/sim"
)

// Store implements ports.RunStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs map[string]sim.Snapshot
}

// NewStore creates an empty in-memory run store.
func NewStore() *Store {
	return &Store{runs: make(map[string]sim.Snapshot)}
}

// Save persists a deep copy of the snapshot, isolating the store from later
// mutation through the caller's pointer.
func (s *Store) Save(ctx context.Context, runID string, snap *sim.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = snap.Clone()
	return nil
}

// Load retrieves a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, runID string) (*sim.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.runs[runID]
	if !ok {
		return nil, ports.ErrRunNotFound
	}
	out := snap.Clone()
	return &out, nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// List returns the stored run ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids, nil
}
