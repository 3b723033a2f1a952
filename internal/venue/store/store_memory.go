package store

import (
	"context"
	"sync"

	"spotter/internal/venue/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
)

// InMemoryStore is a seedable venue directory for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	venues map[id.VenueID]models.Venue
}

func NewInMemory(seed ...models.Venue) *InMemoryStore {
	s := &InMemoryStore{venues: make(map[id.VenueID]models.Venue, len(seed))}
	for _, v := range seed {
		s.venues[v.ID] = v
	}
	return s
}

// Put inserts or replaces a venue.
func (s *InMemoryStore) Put(_ context.Context, v *models.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.ID] = *v
	return nil
}

func (s *InMemoryStore) GetVenue(_ context.Context, venueID id.VenueID) (*models.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.venues[venueID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &v, nil
}
