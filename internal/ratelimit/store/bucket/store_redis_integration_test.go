//go:build integration

package bucket

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"spotter/internal/ratelimit/models"
	"spotter/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushPrefix(context.Background(), "spotter:"))
}

func (s *RedisStoreSuite) TestAllow() {
	ctx := context.Background()
	limit := models.Limit{Requests: 2, Window: time.Minute}

	first, err := s.store.Allow(ctx, "spotter:test", limit)
	s.Require().NoError(err)
	s.True(first.Allowed)
	s.Equal(1, first.Remaining)

	_, err = s.store.Allow(ctx, "spotter:test", limit)
	s.Require().NoError(err)

	third, err := s.store.Allow(ctx, "spotter:test", limit)
	s.Require().NoError(err)
	s.False(third.Allowed)
	s.Greater(third.RetryAfter, 0)
	s.LessOrEqual(third.RetryAfter, 60)

	ttl, err := s.redis.Client.PTTL(ctx, "spotter:test").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	limit := models.Limit{Requests: 1, Window: 200 * time.Millisecond}

	res, err := s.store.Allow(ctx, "spotter:expiring", limit)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, "spotter:expiring", limit)
	s.Require().NoError(err)
	s.False(res.Allowed)

	s.Eventually(func() bool {
		res, err := s.store.Allow(ctx, "spotter:expiring", limit)
		return err == nil && res.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisStoreSuite) TestConcurrentAttempts() {
	ctx := context.Background()
	limit := models.Limit{Requests: 10, Window: time.Minute}

	var wg sync.WaitGroup
	var allowed atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(ctx, "spotter:concurrent", limit)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(10), allowed.Load())
}
