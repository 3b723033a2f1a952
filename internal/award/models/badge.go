package models

import (
	"fmt"
	"time"

	id "spotter/pkg/domain"
)

type BadgeType string

const BadgeFirstCheckin BadgeType = "first_checkin"

// MilestoneBadge is the global badge for reaching n verified check-ins.
func MilestoneBadge(n int) BadgeType {
	return BadgeType(fmt.Sprintf("checkin_milestone_%d", n))
}

// ExplorerBadge is the global badge for checking in at n distinct venues.
func ExplorerBadge(n int) BadgeType {
	return BadgeType(fmt.Sprintf("explorer_%d", n))
}

// VenueBadge is the venue-scoped badge for visiting a venue of the given tier.
func VenueBadge(tier string) BadgeType {
	return BadgeType("venue_" + tier)
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythical  Rarity = "mythical"
)

// GlobalScope is the scope of badges not tied to a venue. Stored as the
// empty string so the (user_id, badge_type, scope_id) unique index covers it.
const GlobalScope = ""

// Badge is an earned achievement. At most one exists per
// (UserID, Type, ScopeID).
type Badge struct {
	ID          id.BadgeID     `json:"id"`
	UserID      id.UserID      `json:"user_id"`
	Type        BadgeType      `json:"badge_type"`
	ScopeID     string         `json:"scope_id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Rarity      Rarity         `json:"rarity"`
	EarnedAt    time.Time      `json:"earned_at"`
	CheckinID   id.CheckinID   `json:"checkin_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Key identifies a badge for uniqueness.
type Key struct {
	UserID  id.UserID
	Type    BadgeType
	ScopeID string
}

func (b *Badge) Key() Key {
	return Key{UserID: b.UserID, Type: b.Type, ScopeID: b.ScopeID}
}

// UpsertResult reports whether UpsertBadgeIfAbsent created the row. When
// Inserted is false, Badge is the row that already existed.
type UpsertResult struct {
	Inserted bool
	Badge    Badge
}
