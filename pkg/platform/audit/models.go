// Package audit carries domain events from services to the transactional
// outbox. A relay worker publishes outbox rows to Kafka.
package audit

import (
	"time"

	id "spotter/pkg/domain"
)

// EventCategory decides routing and retention downstream.
type EventCategory string

const (
	// CategorySecurity covers denials and spoofing signals that feed fraud review.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity.
	CategoryOperations EventCategory = "operations"
)

type EventType string

const (
	EventCheckinRecorded EventType = "checkin_recorded"
	EventCheckinDenied   EventType = "checkin_denied"
	EventSpoofFlagged    EventType = "spoof_flagged"
	EventBadgeAwarded    EventType = "badge_awarded"
)

var eventCategories = map[EventType]EventCategory{
	EventCheckinRecorded: CategoryOperations,
	EventBadgeAwarded:    CategoryOperations,
	EventCheckinDenied:   CategorySecurity,
	EventSpoofFlagged:    CategorySecurity,
}

// Category returns the category for the event type.
// Unknown types default to CategoryOperations.
func (e EventType) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic. Attributes carry event-specific detail
// (distance, badge type, risk score) and must be JSON-encodable.
type Event struct {
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	UserID     id.UserID      `json:"user_id"`
	VenueID    id.VenueID     `json:"venue_id"`
	CheckinID  id.CheckinID   `json:"checkin_id"`
	RequestID  string         `json:"request_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// OutboxEntry is a stored event awaiting publication.
type OutboxEntry struct {
	ID            id.AuditID
	AggregateType string
	AggregateID   string
	EventType     EventType
	Payload       []byte
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}
