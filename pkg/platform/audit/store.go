package audit

import (
	"context"
	"time"

	id "spotter/pkg/domain"
)

// Store appends events to the outbox.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Outbox is the relay-side view of the outbox table.
type Outbox interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkProcessed(ctx context.Context, ids []id.AuditID, at time.Time) error
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
