package adapters

import (
	"context"

	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
)

// VenueLookup is the slice of the venue directory the award engine needs.
type VenueLookup interface {
	GetVenue(ctx context.Context, venueID id.VenueID) (*venuemodels.Venue, error)
}

// VenueRarityAdapter exposes a venue directory as a rarity reader.
type VenueRarityAdapter struct {
	venues VenueLookup
}

func NewVenueRarityAdapter(venues VenueLookup) *VenueRarityAdapter {
	return &VenueRarityAdapter{venues: venues}
}

func (a *VenueRarityAdapter) GetVenueRarity(ctx context.Context, venueID id.VenueID) (venuemodels.Rarity, error) {
	v, err := a.venues.GetVenue(ctx, venueID)
	if err != nil {
		return "", err
	}
	return venuemodels.ParseRarity(string(v.Rarity)), nil
}
