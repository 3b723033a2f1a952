package service

import (
	"context"

	"spotter/internal/award/models"
	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
	audit "spotter/pkg/platform/audit"
)

// BadgeStore persists badges. UpsertBadgeIfAbsent must be a single atomic
// conditional write keyed on (user, type, scope).
type BadgeStore interface {
	UpsertBadgeIfAbsent(ctx context.Context, badge *models.Badge) (models.UpsertResult, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Badge, error)
}

// VisitCounter places one accepted check-in within the user's history,
// ordered by (checked_in_at, id). Reads must not be cached.
//
// CheckinOrdinal is the 1-based position of the check-in among the user's
// accepted check-ins. VenueOrdinal is the number of distinct venues first
// visited at or before it, or 0 when the user already had an accepted
// check-in at the same venue. Both return sentinel.ErrNotFound when the
// check-in is unknown or was not accepted.
type VisitCounter interface {
	CheckinOrdinal(ctx context.Context, userID id.UserID, checkinID id.CheckinID) (int, error)
	VenueOrdinal(ctx context.Context, userID id.UserID, checkinID id.CheckinID) (int, error)
}

// RarityReader returns a venue's tier, or "" when it has none.
type RarityReader interface {
	GetVenueRarity(ctx context.Context, venueID id.VenueID) (venuemodels.Rarity, error)
}

// AuditPublisher receives badge_awarded events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
