package store

import (
	"context"
	"sync"

	"coilledger/pkg/logger"
)

// Persister saves a snapshot transition. The store applies changes to
// the local mirror first and reverts on persist failure; re-running the
// engine against either state is safe because the engine recomputes
// from scratch.
type Persister interface {
	Persist(ctx context.Context, prev, next Snapshot) error
}

// Store owns the live mirror of the collections for one session.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// New creates a store seeded with the loaded collections.
func New(initial Snapshot) *Store {
	return &Store{snap: initial.Clone()}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Replace swaps the mirror wholesale, used after a reload.
func (s *Store) Replace(next Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = next.Clone()
}

// Apply runs mutate against a copy of the current state, installs the
// result optimistically, then persists. On persist failure the mirror
// is reverted to the pre-change snapshot and the error returned.
func (s *Store) Apply(ctx context.Context, p Persister, mutate func(Snapshot) (Snapshot, error)) error {
	s.mu.Lock()
	prev := s.snap
	next, err := mutate(prev.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	s.mu.Unlock()

	if p == nil {
		return nil
	}

	if err := p.Persist(ctx, prev, next); err != nil {
		s.mu.Lock()
		s.snap = prev
		s.mu.Unlock()
		logger.Warn(ctx, "persist failed, mirror reverted", "error", err)
		return err
	}
	return nil
}
