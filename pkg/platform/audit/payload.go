package audit

import (
	"encoding/json"
	"fmt"
	"time"

	id "spotter/pkg/domain"
)

// NewOutboxEntry encodes an event for storage. Events are keyed by user so a
// user's events stay ordered within a Kafka partition.
func NewOutboxEntry(event Event, now time.Time) (OutboxEntry, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	payload, err := json.Marshal(wireEvent{
		Event:    event,
		Category: event.Type.Category(),
	})
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("marshal audit payload: %w", err)
	}

	entry := OutboxEntry{
		ID:            id.NewAuditID(),
		AggregateType: "checkin",
		AggregateID:   event.CheckinID.String(),
		EventType:     event.Type,
		Payload:       payload,
		CreatedAt:     now,
	}
	if !event.UserID.IsNil() {
		entry.AggregateType = "user"
		entry.AggregateID = event.UserID.String()
	}
	return entry, nil
}

// DecodePayload reverses NewOutboxEntry's encoding.
func DecodePayload(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	return w.Event, nil
}

type wireEvent struct {
	Event
	Category EventCategory `json:"category"`
}
