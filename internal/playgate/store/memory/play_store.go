package memory

import (
	"context"
	"sync"

	"playgate/internal/playgate/store"
)

// PlayStore holds the singleton record in process memory.  It is intended
// for tests and dev environments.
type PlayStore struct {
	mu      sync.RWMutex
	rec     store.PlayRecord
	present bool
}

func NewPlayStore() *PlayStore {
	return &PlayStore{}
}

func (s *PlayStore) Get(_ context.Context) (store.PlayRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, s.present, nil
}

func (s *PlayStore) Put(_ context.Context, rec store.PlayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.present = true
	return nil
}

func (s *PlayStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = store.PlayRecord{}
	s.present = false
	return nil
}
