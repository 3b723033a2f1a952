package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"spotter/internal/venue/metrics"
	"spotter/internal/venue/models"
	id "spotter/pkg/domain"
)

const venueKeyPrefix = "spotter:venue:"

// Source is the authoritative directory behind the cache.
type Source interface {
	GetVenue(ctx context.Context, venueID id.VenueID) (*models.Venue, error)
}

// RedisCache is a read-through cache in front of a Source. Redis failures
// degrade to direct source reads; misses from the source are not cached.
type RedisCache struct {
	client  *redis.Client
	source  Source
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type CacheOption func(*RedisCache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

func NewRedisCache(client *redis.Client, source Source, ttl time.Duration, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *RedisCache) GetVenue(ctx context.Context, venueID id.VenueID) (*models.Venue, error) {
	key := venueKeyPrefix + venueID.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v models.Venue
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			c.metrics.IncCacheHit()
			return &v, nil
		}
		c.metrics.IncCacheError()
		c.warn(ctx, "discarding undecodable cached venue", venueID, nil)
	case errors.Is(err, redis.Nil):
		c.metrics.IncCacheMiss()
	default:
		c.metrics.IncCacheError()
		c.warn(ctx, "venue cache read failed", venueID, err)
	}

	v, err := c.source.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(v); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.metrics.IncCacheError()
			c.warn(ctx, "venue cache write failed", venueID, err)
		}
	}
	return v, nil
}

// Invalidate drops a cached venue so the next read goes to the source.
func (c *RedisCache) Invalidate(ctx context.Context, venueID id.VenueID) error {
	return c.client.Del(ctx, venueKeyPrefix+venueID.String()).Err()
}

func (c *RedisCache) warn(ctx context.Context, msg string, venueID id.VenueID, err error) {
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, msg, "venue_id", venueID.String(), "error", err)
}
