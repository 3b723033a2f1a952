// Package worker relays outbox entries to Kafka and prunes published rows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	id "spotter/pkg/domain"
	audit "spotter/pkg/platform/audit"
)

const outboxIDHeader = "outbox_id"

// Producer is the subset of *kgo.Client the relay needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Relay polls the outbox and publishes pending entries. Entries are marked
// processed only after the broker acknowledges them, so delivery is
// at-least-once.
type Relay struct {
	outbox    audit.Outbox
	producer  Producer
	topic     string
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
	metrics   *Metrics
	clock     func() time.Time
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

func NewRelay(outbox audit.Outbox, producer Producer, topic string, opts ...Option) (*Relay, error) {
	if outbox == nil {
		return nil, errors.New("outbox is required")
	}
	if producer == nil {
		return nil, errors.New("producer is required")
	}
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	r := &Relay{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		batchSize: 100,
		interval:  time.Second,
		logger:    slog.New(slog.DiscardHandler),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run drains the outbox every interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.Drain(ctx); err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "outbox relay pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain publishes one batch and returns how many entries were acknowledged.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	entries, err := r.outbox.FetchUnprocessed(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	records := make([]*kgo.Record, len(entries))
	byRecord := make(map[*kgo.Record]audit.OutboxEntry, len(entries))
	for i, e := range entries {
		records[i] = &kgo.Record{
			Topic: r.topic,
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: []kgo.RecordHeader{
				{Key: outboxIDHeader, Value: []byte(e.ID.String())},
				{Key: "event_type", Value: []byte(e.EventType)},
				{Key: "category", Value: []byte(e.EventType.Category())},
			},
			Timestamp: e.CreatedAt,
		}
		byRecord[records[i]] = e
	}

	results := r.producer.ProduceSync(ctx, records...)

	acked := make([]id.AuditID, 0, len(entries))
	var firstErr error
	for _, res := range results {
		entry, ok := byRecord[res.Record]
		if !ok {
			continue
		}
		if res.Err != nil {
			r.metrics.IncFailed()
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		acked = append(acked, entry.ID)
		r.metrics.IncPublished(string(entry.EventType))
	}

	if len(acked) > 0 {
		if err := r.outbox.MarkProcessed(ctx, acked, r.clock()); err != nil {
			return 0, fmt.Errorf("mark processed: %w", err)
		}
	}
	if firstErr != nil {
		return len(acked), fmt.Errorf("produce: %w", firstErr)
	}
	return len(acked), nil
}
