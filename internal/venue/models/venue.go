package models

import (
	"spotter/internal/geo"
	id "spotter/pkg/domain"
)

// Rarity is the venue tier that drives venue-scoped badges.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RarityMythical  Rarity = "mythical"
)

// IsValid reports whether r is a known tier.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary, RarityMythical:
		return true
	}
	return false
}

// ParseRarity maps stored values to a tier; unknown or empty values map to "".
func ParseRarity(s string) Rarity {
	r := Rarity(s)
	if r.IsValid() {
		return r
	}
	return ""
}

// Venue is a directory entry. Latitude and Longitude are nil for venues not
// yet geocoded; RadiusMeters overrides the default check-in radius when set.
type Venue struct {
	ID           id.VenueID `json:"id"`
	Name         string     `json:"name"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Rarity       Rarity     `json:"rarity"`
	RadiusMeters *float64   `json:"radius_meters,omitempty"`
}

// Location returns the venue coordinate, or false when it has none.
func (v *Venue) Location() (geo.Coordinate, bool) {
	if v == nil || v.Latitude == nil || v.Longitude == nil {
		return geo.Coordinate{}, false
	}
	return geo.At(*v.Latitude, *v.Longitude), true
}
