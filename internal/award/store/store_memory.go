package store

import (
	"context"
	"sort"
	"sync"

	"spotter/internal/award/models"
	id "spotter/pkg/domain"
)

// InMemoryStore enforces badge uniqueness with a check-and-set under one
// mutex, which is atomic for a single process.
type InMemoryStore struct {
	mu     sync.RWMutex
	badges map[models.Key]models.Badge
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{badges: make(map[models.Key]models.Badge)}
}

func (s *InMemoryStore) UpsertBadgeIfAbsent(_ context.Context, badge *models.Badge) (models.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := badge.Key()
	if existing, ok := s.badges[key]; ok {
		return models.UpsertResult{Inserted: false, Badge: existing}, nil
	}
	s.badges[key] = *badge
	return models.UpsertResult{Inserted: true, Badge: *badge}, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]models.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Badge{}
	for key, b := range s.badges {
		if key.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EarnedAt.Equal(out[j].EarnedAt) {
			return out[i].Type < out[j].Type
		}
		return out[i].EarnedAt.After(out[j].EarnedAt)
	})
	return out, nil
}
