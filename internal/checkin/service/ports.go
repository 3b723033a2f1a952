package service

import (
	"context"
	"time"

	awardmodels "spotter/internal/award/models"
	"spotter/internal/checkin/models"
	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
	audit "spotter/pkg/platform/audit"
)

// VenueDirectory resolves venues. Returns sentinel.ErrNotFound when absent.
type VenueDirectory interface {
	GetVenue(ctx context.Context, venueID id.VenueID) (*venuemodels.Venue, error)
}

// Store persists attempts and their audit snapshots. InsertCheckin joins a
// transaction carried in ctx when there is one.
type Store interface {
	InsertCheckin(ctx context.Context, rec *models.Record) error
	InsertAudit(ctx context.Context, a *models.Audit) error
	HasVerifiedVisitSince(ctx context.Context, userID id.UserID, venueID id.VenueID, since time.Time) (bool, error)
}

// Awarder evaluates badges for an accepted check-in.
type Awarder interface {
	Evaluate(ctx context.Context, userID id.UserID, venueID id.VenueID, checkinID id.CheckinID) ([]awardmodels.Badge, error)
}

// AuditPublisher writes domain events. Wire a synchronous publisher over the
// outbox store so events commit with the check-in row.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
