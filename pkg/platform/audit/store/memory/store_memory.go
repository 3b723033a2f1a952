package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	id "spotter/pkg/domain"
	audit "spotter/pkg/platform/audit"
	"spotter/pkg/platform/tx"
)

// InMemoryStore is an outbox for tests and single-process runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.AuditID]*audit.OutboxEntry
	clock   func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[id.AuditID]*audit.OutboxEntry),
		clock:   time.Now,
	}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[id.AuditID]*audit.OutboxEntry)
}

// Append stores event as an unprocessed entry. Inside a tx.MemoryRunner the
// entry is dropped again if the unit of work fails.
func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	entry, err := audit.NewOutboxEntry(event, s.clock())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = &entry
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		delete(s.entries, entry.ID)
		s.mu.Unlock()
	})
	return nil
}

func (s *InMemoryStore) FetchUnprocessed(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]audit.OutboxEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ProcessedAt == nil {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) MarkProcessed(_ context.Context, ids []id.AuditID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entryID := range ids {
		if e, ok := s.entries[entryID]; ok {
			processed := at
			e.ProcessedAt = &processed
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteProcessedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for entryID, e := range s.entries {
		if e.ProcessedAt != nil && e.ProcessedAt.Before(cutoff) {
			delete(s.entries, entryID)
			removed++
		}
	}
	return removed, nil
}

// Events decodes every stored entry, oldest first.
func (s *InMemoryStore) Events() []audit.Event {
	s.mu.RLock()
	entries := make([]audit.OutboxEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, *e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	events := make([]audit.Event, 0, len(entries))
	for _, e := range entries {
		if ev, err := audit.DecodePayload(e.Payload); err == nil {
			events = append(events, ev)
		}
	}
	return events
}

// ListByUser returns the decoded events for one user.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	var out []audit.Event
	for _, ev := range s.Events() {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}
