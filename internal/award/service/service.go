// Package service decides which badges a verified check-in earns and records
// each one exactly once.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"spotter/internal/award/metrics"
	"spotter/internal/award/models"
	venuemodels "spotter/internal/venue/models"
	id "spotter/pkg/domain"
	dErrors "spotter/pkg/domain-errors"
	audit "spotter/pkg/platform/audit"
	"spotter/pkg/platform/sentinel"
	"spotter/pkg/requestcontext"
)

type Service struct {
	badges  BadgeStore
	visits  VisitCounter
	rarity  RarityReader
	auditor AuditPublisher
	rules   []Rule
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
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

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

func New(badges BadgeStore, visits VisitCounter, rarity RarityReader, opts ...Option) (*Service, error) {
	if badges == nil {
		return nil, errors.New("badge store is required")
	}
	if visits == nil {
		return nil, errors.New("visit counter is required")
	}
	if rarity == nil {
		return nil, errors.New("rarity reader is required")
	}
	s := &Service{
		badges: badges,
		visits: visits,
		rarity: rarity,
		rules:  DefaultRules,
		tracer: otel.Tracer("spotter/award"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Evaluate returns the badges newly earned by this check-in. Upsert failures
// for one candidate are logged and counted without stopping the others. If
// visit ordinals cannot be read the result is empty and the error says why.
func (s *Service) Evaluate(ctx context.Context, userID id.UserID, venueID id.VenueID, checkinID id.CheckinID) ([]models.Badge, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluation(time.Since(start).Seconds()) }()

	ctx, span := s.tracer.Start(ctx, "award.Evaluate", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("venue_id", venueID.String()),
	))
	defer span.End()

	facts, err := s.loadFacts(ctx, userID, venueID, checkinID)
	if err != nil {
		s.metrics.IncEvaluationFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "visit aggregate unavailable")
		return []models.Badge{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read visit aggregate")
	}

	earned := []models.Badge{}
	for _, candidate := range Candidates(s.rules, facts) {
		res, err := s.badges.UpsertBadgeIfAbsent(ctx, &candidate)
		if err != nil {
			s.metrics.IncAwardFailure(string(candidate.Type))
			s.logError(ctx, "badge upsert failed", err,
				"user_id", userID.String(),
				"badge_type", string(candidate.Type),
				"scope_id", candidate.ScopeID,
			)
			continue
		}
		if !res.Inserted {
			continue
		}
		earned = append(earned, res.Badge)
		s.metrics.IncBadgeAwarded(string(res.Badge.Type))
		s.emitAwarded(ctx, &res.Badge, venueID)
	}

	span.SetAttributes(attribute.Int("badges_earned", len(earned)))
	return earned, nil
}

// ListBadges returns every badge the user holds, most recent first.
func (s *Service) ListBadges(ctx context.Context, userID id.UserID) ([]models.Badge, error) {
	badges, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list badges")
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	return badges, nil
}

// loadFacts reads both ordinals and the venue tier concurrently. A failed
// rarity lookup only suppresses the venue badge.
func (s *Service) loadFacts(ctx context.Context, userID id.UserID, venueID id.VenueID, checkinID id.CheckinID) (Facts, error) {
	facts := Facts{
		UserID:    userID,
		VenueID:   venueID,
		CheckinID: checkinID,
		Now:       requestcontext.Now(ctx),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.visits.CheckinOrdinal(gctx, userID, checkinID)
		facts.CheckinOrdinal = n
		return err
	})
	g.Go(func() error {
		n, err := s.visits.VenueOrdinal(gctx, userID, checkinID)
		facts.VenueOrdinal = n
		return err
	})
	var rarity venuemodels.Rarity
	g.Go(func() error {
		r, err := s.rarity.GetVenueRarity(gctx, venueID)
		if err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				s.logError(gctx, "venue rarity lookup failed", err, "venue_id", venueID.String())
			}
			return nil
		}
		rarity = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return Facts{}, err
	}
	facts.VenueRarity = rarity
	return facts, nil
}

func (s *Service) emitAwarded(ctx context.Context, b *models.Badge, venueID id.VenueID) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Type:      audit.EventBadgeAwarded,
		UserID:    b.UserID,
		VenueID:   venueID,
		CheckinID: b.CheckinID,
		Attributes: map[string]any{
			"badge_type": string(b.Type),
			"scope_id":   b.ScopeID,
			"rarity":     string(b.Rarity),
		},
	})
	if err != nil {
		s.logError(ctx, "failed to emit badge audit event", err, "badge_type", string(b.Type))
	}
}

func (s *Service) logError(ctx context.Context, msg string, err error, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
}
