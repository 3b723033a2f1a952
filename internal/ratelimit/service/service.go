// Package service throttles check-in attempts per user. Decisions come from
// a shared store; while it fails, a local in-memory window takes over.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"spotter/internal/ratelimit/metrics"
	"spotter/internal/ratelimit/models"
	"spotter/internal/ratelimit/store/bucket"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/circuit"
)

// Store counts attempts within a window.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

type Service struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limit    models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFallback replaces the in-memory store used while the breaker is open.
func WithFallback(store Store) Option {
	return func(s *Service) {
		s.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

// New builds a limiter allowing attemptsPerMinute check-ins per user.
func New(primary Store, attemptsPerMinute int, opts ...Option) (*Service, error) {
	if primary == nil {
		return nil, errors.New("rate limit store is required")
	}
	if attemptsPerMinute <= 0 {
		return nil, errors.New("attempts per minute must be positive")
	}
	s := &Service{
		primary: primary,
		limit:   models.Limit{Requests: attemptsPerMinute, Window: time.Minute},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fallback == nil {
		s.fallback = bucket.NewInMemory()
	}
	if s.breaker == nil {
		s.breaker = circuit.New("ratelimit")
	}
	return s, nil
}

// AllowCheckin records one check-in attempt for userID.
func (s *Service) AllowCheckin(ctx context.Context, userID id.UserID) (*models.Result, error) {
	key := models.CheckinKey(userID)

	if s.breaker.IsOpen() {
		res, err := s.primary.Allow(ctx, key, s.limit)
		if err == nil {
			if usePrimary, change := s.breaker.RecordSuccess(); usePrimary {
				if change.Closed {
					s.metrics.SetDegraded(false)
					s.info(ctx, "rate limit store recovered")
				}
				return s.decide(res), nil
			}
		} else {
			s.breaker.RecordFailure()
			s.metrics.IncStoreFailure()
		}
		return s.allowFallback(ctx, key)
	}

	res, err := s.primary.Allow(ctx, key, s.limit)
	if err != nil {
		s.metrics.IncStoreFailure()
		useFallback, change := s.breaker.RecordFailure()
		if change.Opened {
			s.metrics.SetDegraded(true)
			s.warn(ctx, "rate limit store failing, switching to in-memory fallback", err)
		}
		if useFallback {
			return s.allowFallback(ctx, key)
		}
		// below the failure threshold a store error lets the attempt through
		s.warn(ctx, "rate limit store error", err)
		return &models.Result{Allowed: true, Limit: s.limit.Requests}, nil
	}
	s.breaker.RecordSuccess()
	return s.decide(res), nil
}

func (s *Service) allowFallback(ctx context.Context, key string) (*models.Result, error) {
	res, err := s.fallback.Allow(ctx, key, s.limit)
	if err != nil {
		return nil, err
	}
	return s.decide(res), nil
}

func (s *Service) decide(res *models.Result) *models.Result {
	s.metrics.IncDecision(res.Allowed)
	return res
}

func (s *Service) warn(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, msg, "error", err)
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg)
}
