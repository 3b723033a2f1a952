package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotter/internal/venue/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	lat, lon := 48.858370, 2.294481
	venueID := id.VenueID(uuid.New())
	s := NewInMemory(models.Venue{ID: venueID, Name: "Tower", Latitude: &lat, Longitude: &lon})

	t.Run("seeded venue", func(t *testing.T) {
		v, err := s.GetVenue(ctx, venueID)
		require.NoError(t, err)
		assert.Equal(t, "Tower", v.Name)
	})

	t.Run("returned venue is a copy", func(t *testing.T) {
		v, err := s.GetVenue(ctx, venueID)
		require.NoError(t, err)
		v.Name = "changed"
		again, err := s.GetVenue(ctx, venueID)
		require.NoError(t, err)
		assert.Equal(t, "Tower", again.Name)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, &models.Venue{ID: venueID, Name: "Renamed", Rarity: models.RarityMythical}))
		v, err := s.GetVenue(ctx, venueID)
		require.NoError(t, err)
		assert.Equal(t, models.RarityMythical, v.Rarity)
		_, ok := v.Location()
		assert.False(t, ok)
	})

	t.Run("missing venue", func(t *testing.T) {
		_, err := s.GetVenue(ctx, id.VenueID(uuid.New()))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
