package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotter/internal/checkin/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
)

func record(user id.UserID, venue id.VenueID, accepted bool, at time.Time) *models.Record {
	return &models.Record{
		ID:          id.NewCheckinID(),
		UserID:      user,
		VenueID:     venue,
		Accepted:    accepted,
		CheckedInAt: at,
	}
}

func TestInMemoryStore_Ordinals(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	user := id.UserID(uuid.New())
	other := id.UserID(uuid.New())
	venueA := id.VenueID(uuid.New())
	venueB := id.VenueID(uuid.New())
	venueC := id.VenueID(uuid.New())
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	first := record(user, venueA, true, base)
	repeat := record(user, venueA, true, base.Add(time.Minute))
	denied := record(user, venueB, false, base.Add(2*time.Minute))
	foreign := record(other, venueB, true, base.Add(3*time.Minute))
	newVenue := record(user, venueC, true, base.Add(4*time.Minute))
	for _, rec := range []*models.Record{newVenue, denied, repeat, foreign, first} {
		require.NoError(t, s.InsertCheckin(ctx, rec))
	}

	tests := []struct {
		name    string
		rec     *models.Record
		ordinal int
		venue   int
	}{
		{"earliest check-in", first, 1, 1},
		{"repeat visit", repeat, 2, 0},
		{"second venue after a denied attempt", newVenue, 3, 2},
		{"other user's history is separate", foreign, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.CheckinOrdinal(ctx, tt.rec.UserID, tt.rec.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.ordinal, n)

			v, err := s.VenueOrdinal(ctx, tt.rec.UserID, tt.rec.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.venue, v)
		})
	}

	t.Run("denied attempts have no ordinal", func(t *testing.T) {
		_, err := s.CheckinOrdinal(ctx, user, denied.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = s.VenueOrdinal(ctx, user, denied.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("check-in of another user is not found", func(t *testing.T) {
		_, err := s.CheckinOrdinal(ctx, user, foreign.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("same timestamp breaks ties by id", func(t *testing.T) {
		s := NewInMemory()
		a := record(user, venueA, true, base)
		b := record(user, venueB, true, base)
		require.NoError(t, s.InsertCheckin(ctx, a))
		require.NoError(t, s.InsertCheckin(ctx, b))

		na, err := s.CheckinOrdinal(ctx, user, a.ID)
		require.NoError(t, err)
		nb, err := s.CheckinOrdinal(ctx, user, b.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2}, []int{na, nb})
	})

	t.Run("all attempts are kept", func(t *testing.T) {
		assert.Len(t, s.Checkins(), 5)
	})
}

func TestInMemoryStore_HasVerifiedVisitSince(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	user := id.UserID(uuid.New())
	venue := id.VenueID(uuid.New())
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertCheckin(ctx, record(user, venue, true, now.Add(-2*time.Hour))))
	require.NoError(t, s.InsertCheckin(ctx, record(user, venue, false, now.Add(-10*time.Minute))))

	tests := []struct {
		name  string
		since time.Time
		want  bool
	}{
		{"accepted visit inside window", now.Add(-3 * time.Hour), true},
		{"boundary is inclusive", now.Add(-2 * time.Hour), true},
		{"only a denied attempt inside window", now.Add(-time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.HasVerifiedVisitSince(ctx, user, venue, tt.since)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInMemoryStore_ConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	user := id.UserID(uuid.New())
	venue := id.VenueID(uuid.New())

	records := make([]*models.Record, 50)
	for i := range records {
		records[i] = record(user, venue, true, time.Now())
	}

	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.InsertCheckin(ctx, rec)
		}()
	}
	wg.Wait()

	assert.Len(t, s.Checkins(), 50)
	seen := make(map[int]bool)
	for _, rec := range records {
		n, err := s.CheckinOrdinal(ctx, user, rec.ID)
		require.NoError(t, err)
		seen[n] = true
	}
	assert.Len(t, seen, 50, "every check-in has a distinct position")
}
