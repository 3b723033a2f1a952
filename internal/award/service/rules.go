package service

import (
	"fmt"
	"strings"
	"time"

	"spotter/internal/award/models"
	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
)

// Facts are the inputs award rules see for one accepted check-in.
// CheckinOrdinal and VenueOrdinal place the check-in in the user's history,
// so two check-ins committed together still see distinct values.
type Facts struct {
	UserID         id.UserID
	VenueID        id.VenueID
	CheckinID      id.CheckinID
	CheckinOrdinal int
	VenueOrdinal   int
	VenueRarity    venuemodels.Rarity
	Now            time.Time
}

// Rule proposes candidate badges. Candidates still go through the atomic
// upsert; proposing a badge the user already holds is harmless.
type Rule struct {
	Name       string
	Candidates func(f Facts) []models.Badge
}

type milestone struct {
	Threshold int
	Rarity    models.Rarity
}

// TotalMilestones are verified check-in counts that earn a badge.
var TotalMilestones = []milestone{
	{10, models.RarityCommon},
	{25, models.RarityCommon},
	{50, models.RarityRare},
	{100, models.RarityRare},
	{250, models.RarityEpic},
	{500, models.RarityEpic},
	{1000, models.RarityLegendary},
}

// ExplorerMilestones are distinct-venue counts that earn a badge.
var ExplorerMilestones = []milestone{
	{5, models.RarityCommon},
	{10, models.RarityRare},
	{25, models.RarityRare},
	{50, models.RarityEpic},
	{100, models.RarityLegendary},
}

// AwardingRarities are venue tiers that grant a venue-scoped badge.
var AwardingRarities = map[venuemodels.Rarity]models.Rarity{
	venuemodels.RarityLegendary: models.RarityLegendary,
	venuemodels.RarityMythical:  models.RarityMythical,
}

// DefaultRules is the rule table evaluated after every accepted check-in.
var DefaultRules = []Rule{
	{Name: "first_checkin", Candidates: firstCheckin},
	{Name: "checkin_milestones", Candidates: totalMilestone},
	{Name: "explorer_milestones", Candidates: explorerMilestone},
	{Name: "venue_rarity", Candidates: venueRarity},
}

// Candidates runs every rule against f.
func Candidates(rules []Rule, f Facts) []models.Badge {
	var out []models.Badge
	for _, r := range rules {
		out = append(out, r.Candidates(f)...)
	}
	return out
}

func firstCheckin(f Facts) []models.Badge {
	if f.CheckinOrdinal != 1 {
		return nil
	}
	return []models.Badge{newBadge(f, models.BadgeFirstCheckin, models.GlobalScope,
		"First Step", "Completed your first verified check-in", models.RarityCommon,
		map[string]any{"total_checkins": f.CheckinOrdinal})}
}

func totalMilestone(f Facts) []models.Badge {
	for _, m := range TotalMilestones {
		if f.CheckinOrdinal == m.Threshold {
			return []models.Badge{newBadge(f, models.MilestoneBadge(m.Threshold), models.GlobalScope,
				fmt.Sprintf("%d Check-ins", m.Threshold),
				fmt.Sprintf("Completed %d verified check-ins", m.Threshold),
				m.Rarity, map[string]any{"threshold": m.Threshold})}
		}
	}
	return nil
}

func explorerMilestone(f Facts) []models.Badge {
	for _, m := range ExplorerMilestones {
		if f.VenueOrdinal == m.Threshold {
			return []models.Badge{newBadge(f, models.ExplorerBadge(m.Threshold), models.GlobalScope,
				fmt.Sprintf("Explorer %d", m.Threshold),
				fmt.Sprintf("Checked in at %d different venues", m.Threshold),
				m.Rarity, map[string]any{"threshold": m.Threshold})}
		}
	}
	return nil
}

func venueRarity(f Facts) []models.Badge {
	rarity, ok := AwardingRarities[f.VenueRarity]
	if !ok {
		return nil
	}
	tier := string(f.VenueRarity)
	title := strings.ToUpper(tier[:1]) + tier[1:]
	return []models.Badge{newBadge(f, models.VenueBadge(tier), f.VenueID.String(),
		title+" Visitor",
		fmt.Sprintf("Checked in at a %s venue", tier),
		rarity, map[string]any{"venue_id": f.VenueID.String(), "venue_rarity": tier})}
}

func newBadge(f Facts, typ models.BadgeType, scope, name, description string, rarity models.Rarity, meta map[string]any) models.Badge {
	return models.Badge{
		ID:          id.NewBadgeID(),
		UserID:      f.UserID,
		Type:        typ,
		ScopeID:     scope,
		Name:        name,
		Description: description,
		Rarity:      rarity,
		EarnedAt:    f.Now,
		CheckinID:   f.CheckinID,
		Metadata:    meta,
	}
}
