package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"spotter/internal/checkin/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
	"spotter/pkg/platform/tx"
)

// InMemoryStore keeps attempts and audits in process. It also serves as the
// award engine's visit counter.
type InMemoryStore struct {
	mu       sync.RWMutex
	checkins []models.Record
	audits   []models.Audit
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

// InsertCheckin appends rec. Inside a tx.MemoryRunner the row is removed
// again if the unit of work fails.
func (s *InMemoryStore) InsertCheckin(ctx context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkins = append(s.checkins, *rec)
	checkinID := rec.ID
	tx.OnRollback(ctx, func() { s.removeCheckin(checkinID) })
	return nil
}

func (s *InMemoryStore) removeCheckin(checkinID id.CheckinID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.checkins {
		if rec.ID == checkinID {
			s.checkins = append(s.checkins[:i], s.checkins[i+1:]...)
			return
		}
	}
}

func (s *InMemoryStore) InsertAudit(_ context.Context, a *models.Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, *a)
	return nil
}

func (s *InMemoryStore) HasVerifiedVisitSince(_ context.Context, userID id.UserID, venueID id.VenueID, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.checkins {
		if rec.Accepted && rec.UserID == userID && rec.VenueID == venueID && !rec.CheckedInAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// CheckinOrdinal is the 1-based position of an accepted check-in in the
// user's history.
func (s *InMemoryStore) CheckinOrdinal(_ context.Context, userID id.UserID, checkinID id.CheckinID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, ok := s.acceptedLocked(userID, checkinID)
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	n := 0
	for _, rec := range s.checkins {
		if rec.Accepted && rec.UserID == userID && !precedes(target, rec) {
			n++
		}
	}
	return n, nil
}

// VenueOrdinal counts the venues first visited at or before checkinID. It is
// 0 when an earlier accepted check-in exists at the same venue.
func (s *InMemoryStore) VenueOrdinal(_ context.Context, userID id.UserID, checkinID id.CheckinID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target, ok := s.acceptedLocked(userID, checkinID)
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	firsts := make(map[id.VenueID]models.Record)
	for _, rec := range s.checkins {
		if !rec.Accepted || rec.UserID != userID {
			continue
		}
		if cur, seen := firsts[rec.VenueID]; !seen || precedes(rec, cur) {
			firsts[rec.VenueID] = rec
		}
	}
	if firsts[target.VenueID].ID != target.ID {
		return 0, nil
	}
	n := 0
	for _, first := range firsts {
		if !precedes(target, first) {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) acceptedLocked(userID id.UserID, checkinID id.CheckinID) (models.Record, bool) {
	for _, rec := range s.checkins {
		if rec.ID == checkinID {
			return rec, rec.Accepted && rec.UserID == userID
		}
	}
	return models.Record{}, false
}

// precedes orders records by (checked_in_at, id), matching the Postgres
// row comparison on uuid bytes.
func precedes(a, b models.Record) bool {
	if !a.CheckedInAt.Equal(b.CheckedInAt) {
		return a.CheckedInAt.Before(b.CheckedInAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// Checkins returns a copy of every stored attempt.
func (s *InMemoryStore) Checkins() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Record(nil), s.checkins...)
}

// Audits returns a copy of every stored audit row.
func (s *InMemoryStore) Audits() []models.Audit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Audit(nil), s.audits...)
}
