package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenueLocation(t *testing.T) {
	lat, lon := 51.5, -0.12

	t.Run("has coordinates", func(t *testing.T) {
		v := &Venue{Latitude: &lat, Longitude: &lon}
		loc, ok := v.Location()
		assert.True(t, ok)
		assert.Equal(t, 51.5, loc.Latitude)
		assert.Equal(t, -0.12, loc.Longitude)
	})

	t.Run("missing longitude", func(t *testing.T) {
		_, ok := (&Venue{Latitude: &lat}).Location()
		assert.False(t, ok)
	})

	t.Run("nil venue", func(t *testing.T) {
		var v *Venue
		_, ok := v.Location()
		assert.False(t, ok)
	})
}

func TestParseRarity(t *testing.T) {
	assert.Equal(t, RarityLegendary, ParseRarity("legendary"))
	assert.Equal(t, RarityCommon, ParseRarity("common"))
	assert.Equal(t, Rarity(""), ParseRarity("LEGENDARY"))
	assert.Equal(t, Rarity(""), ParseRarity(""))
}
