package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spotter/internal/ratelimit/models"
)

// fixedWindowScript counts an attempt and starts the window on the first
// one. It returns the count and the remaining TTL in milliseconds.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisStore shares attempt counts across instances with a fixed window.
type RedisStore struct {
	client redis.UniversalClient
	clock  func() time.Time
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, clock: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	windowMs := limit.Window.Milliseconds()
	if windowMs < 1 {
		windowMs = 1
	}

	raw, err := fixedWindowScript.Run(ctx, s.client, []string{key}, windowMs).Result()
	if err != nil {
		return nil, fmt.Errorf("run rate limit script: %w", err)
	}
	values, ok := raw.([]any)
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected rate limit response shape: %T", raw)
	}
	count, ok := values[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected rate limit count type: %T", values[0])
	}
	ttlMs, ok := values[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected rate limit ttl type: %T", values[1])
	}

	ttl := time.Duration(ttlMs) * time.Millisecond
	res := &models.Result{
		Allowed: int(count) <= limit.Requests,
		Limit:   limit.Requests,
		ResetAt: s.clock().Add(ttl),
	}
	if res.Allowed {
		res.Remaining = limit.Requests - int(count)
	} else {
		res.RetryAfter = retryAfter(ttl)
	}
	return res, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
