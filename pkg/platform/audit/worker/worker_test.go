package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "spotter/pkg/domain"
	audit "spotter/pkg/platform/audit"
	"spotter/pkg/platform/audit/store/memory"
)

type fakeProducer struct {
	mu      sync.Mutex
	records []*kgo.Record
	failKey string
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		var err error
		if f.failKey != "" && string(r.Key) == f.failKey {
			err = errors.New("broker unavailable")
		} else {
			f.records = append(f.records, r)
		}
		results = append(results, kgo.ProduceResult{Record: r, Err: err})
	}
	return results
}

func header(r *kgo.Record, key string) string {
	for _, h := range r.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestRelay_Drain(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks entries processed", func(t *testing.T) {
		outbox := memory.NewInMemoryStore()
		userID := id.UserID(uuid.New())
		require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventCheckinRecorded, UserID: userID}))
		require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventBadgeAwarded, UserID: userID}))

		producer := &fakeProducer{}
		relay, err := NewRelay(outbox, producer, "spotter.audit")
		require.NoError(t, err)

		n, err := relay.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.Len(t, producer.records, 2)
		assert.Equal(t, "spotter.audit", producer.records[0].Topic)
		assert.Equal(t, userID.String(), string(producer.records[0].Key))
		assert.NotEmpty(t, header(producer.records[0], outboxIDHeader))

		pending, err := outbox.FetchUnprocessed(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, pending)

		n, err = relay.Drain(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "nothing left to publish")
	})

	t.Run("failed records stay pending", func(t *testing.T) {
		outbox := memory.NewInMemoryStore()
		good := id.UserID(uuid.New())
		bad := id.UserID(uuid.New())
		require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventCheckinRecorded, UserID: good}))
		require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventSpoofFlagged, UserID: bad}))

		relay, err := NewRelay(outbox, &fakeProducer{failKey: bad.String()}, "spotter.audit")
		require.NoError(t, err)

		n, err := relay.Drain(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, n)

		pending, err := outbox.FetchUnprocessed(ctx, 0)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, audit.EventSpoofFlagged, pending[0].EventType)
	})
}

func TestNewRelay_RequiresCollaborators(t *testing.T) {
	_, err := NewRelay(nil, &fakeProducer{}, "t")
	assert.Error(t, err)
	_, err = NewRelay(memory.NewInMemoryStore(), nil, "t")
	assert.Error(t, err)
	_, err = NewRelay(memory.NewInMemoryStore(), &fakeProducer{}, "")
	assert.Error(t, err)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	outbox := memory.NewInMemoryStore()
	producer := &fakeProducer{}
	relay, err := NewRelay(outbox, producer, "spotter.audit", WithInterval(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, outbox.Append(context.Background(), audit.Event{Type: audit.EventCheckinRecorded}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		producer.mu.Lock()
		defer producer.mu.Unlock()
		return len(producer.records) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestPruner(t *testing.T) {
	ctx := context.Background()
	outbox := memory.NewInMemoryStore()
	require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventCheckinRecorded}))
	require.NoError(t, outbox.Append(ctx, audit.Event{Type: audit.EventCheckinRecorded}))

	entries, err := outbox.FetchUnprocessed(ctx, 0)
	require.NoError(t, err)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, outbox.MarkProcessed(ctx, []id.AuditID{entries[0].ID}, now.Add(-48*time.Hour)))
	require.NoError(t, outbox.MarkProcessed(ctx, []id.AuditID{entries[1].ID}, now.Add(-time.Hour)))

	pruner, err := NewPruner(outbox, 24*time.Hour, "@hourly", nil)
	require.NoError(t, err)
	pruner.clock = func() time.Time { return now }

	n, err := pruner.PruneOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, outbox.Events(), 1)

	pruner.Start()
	<-pruner.Stop().Done()
}

func TestNewPruner_Validation(t *testing.T) {
	_, err := NewPruner(memory.NewInMemoryStore(), time.Hour, "not a schedule", nil)
	assert.Error(t, err)
	_, err = NewPruner(memory.NewInMemoryStore(), 0, "@hourly", nil)
	assert.Error(t, err)
	_, err = NewPruner(nil, time.Hour, "@hourly", nil)
	assert.Error(t, err)
}
