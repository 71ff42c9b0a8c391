package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"studiogate/internal/profile"
)

// InMemoryStore stores profiles in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]profile.Profile
}

// NewInMemory constructs an empty in-memory profile store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[uuid.UUID]profile.Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; ok {
		return alreadyExists(p.ID)
	}
	s.profiles[p.ID] = *p
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		copied := p
		return &copied, nil
	}
	return nil, notFound(id)
}

func (s *InMemoryStore) Update(_ context.Context, p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return notFound(p.ID)
	}
	s.profiles[p.ID] = *p
	return nil
}
