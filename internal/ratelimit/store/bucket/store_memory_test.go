package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotter/internal/ratelimit/models"
)

func TestInMemoryStore_Allow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s := NewInMemory()
	s.clock = func() time.Time { return now }
	limit := models.Limit{Requests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		res, err := s.Allow(ctx, "k", limit)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	t.Run("fourth attempt is denied", func(t *testing.T) {
		res, err := s.Allow(ctx, "k", limit)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 60, res.RetryAfter)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		res, err := s.Allow(ctx, "other", limit)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		now = now.Add(time.Minute)
		res, err := s.Allow(ctx, "k", limit)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, s.Reset(ctx, "k"))
		res, err := s.Allow(ctx, "k", limit)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	limit := models.Limit{Requests: 10, Window: time.Minute}

	var wg sync.WaitGroup
	var allowed atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Allow(ctx, "k", limit)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}
