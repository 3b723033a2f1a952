package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"spotter/internal/award/models"
	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
)

func types(badges []models.Badge) []models.BadgeType {
	out := make([]models.BadgeType, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.Type)
	}
	return out
}

func TestCandidates(t *testing.T) {
	base := Facts{UserID: id.UserID(uuid.New()), VenueID: id.VenueID(uuid.New())}

	tests := []struct {
		name     string
		ordinal  int
		venue    int
		rarity   venuemodels.Rarity
		want     []models.BadgeType
	}{
		{"first check-in", 1, 1, "", []models.BadgeType{models.BadgeFirstCheckin}},
		{"second check-in", 2, 1, "", []models.BadgeType{}},
		{"ninth check-in", 9, 2, "", []models.BadgeType{}},
		{"tenth check-in", 10, 2, "", []models.BadgeType{models.MilestoneBadge(10)}},
		{"eleventh check-in", 11, 2, "", []models.BadgeType{}},
		{"thousandth check-in", 1000, 3, "", []models.BadgeType{models.MilestoneBadge(1000)}},
		{"fifth venue", 7, 5, "", []models.BadgeType{models.ExplorerBadge(5)}},
		{"repeat venue after the fifth", 8, 0, "", []models.BadgeType{}},
		{"rare venue earns nothing", 3, 2, venuemodels.RarityRare, []models.BadgeType{}},
		{"mythical venue", 3, 2, venuemodels.RarityMythical, []models.BadgeType{models.VenueBadge("mythical")}},
		{
			"everything at once", 10, 10, venuemodels.RarityLegendary,
			[]models.BadgeType{models.MilestoneBadge(10), models.ExplorerBadge(10), models.VenueBadge("legendary")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			f.CheckinOrdinal = tt.ordinal
			f.VenueOrdinal = tt.venue
			f.VenueRarity = tt.rarity
			assert.ElementsMatch(t, tt.want, types(Candidates(DefaultRules, f)))
		})
	}
}

func TestVenueBadgeNaming(t *testing.T) {
	f := Facts{VenueID: id.VenueID(uuid.New()), VenueRarity: venuemodels.RarityLegendary}
	badges := Candidates(DefaultRules, f)
	if assert.Len(t, badges, 1) {
		assert.Equal(t, "Legendary Visitor", badges[0].Name)
		assert.Equal(t, f.VenueID.String(), badges[0].ScopeID)
	}
}
