package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driven"
)

// Ensure MappingStore implements the interface.
var _ driven.MappingStore = (*MappingStore)(nil)

// MappingStore is an in-memory implementation of driven.MappingStore.
// Sets are cloned on the way in and out so callers never share state.
type MappingStore struct {
	mu   sync.RWMutex
	sets map[string]*domain.MappingSet
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		sets: make(map[string]*domain.MappingSet),
	}
}

// Load returns the mapping set for a database, or an empty set.
func (s *MappingStore) Load(_ context.Context, databaseID string) (*domain.MappingSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[databaseID]
	if !ok {
		return domain.NewMappingSet(), nil
	}
	return set.Clone(), nil
}

// Save replaces the mapping set for a database.
func (s *MappingStore) Save(_ context.Context, databaseID string, set *domain.MappingSet) error {
	if databaseID == "" {
		return domain.ErrMissingDatabase
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[databaseID] = set.Clone()
	return nil
}

// Delete removes the mapping set for a database.
func (s *MappingStore) Delete(_ context.Context, databaseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, databaseID)
	return nil
}
