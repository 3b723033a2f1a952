// Package service runs the check-in sequence: venue lookup, location
// verification, spoof screening, persistence and badge evaluation.
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"spotter/internal/antispoof"
	awardmodels "spotter/internal/award/models"
	"spotter/internal/checkin/metrics"
	"spotter/internal/checkin/models"
	"spotter/internal/geo"
	venuemodels "spotter/internal/venue/models"
	"spotter/internal/verification"
	id "spotter/pkg/domain"
	dErrors "spotter/pkg/domain-errors"
	audit "spotter/pkg/platform/audit"
	"spotter/pkg/platform/sentinel"
	"spotter/pkg/platform/tx"
	"spotter/pkg/requestcontext"
)

const (
	outcomeAccepted           = "accepted"
	outcomeVerificationFailed = "verification_failed"
	outcomeSpoofBlocked       = "spoof_blocked"
	outcomeVenueNotFound      = "venue_not_found"
	outcomeVenueNoLocation    = "venue_location_unavailable"
	outcomePersistenceError   = "persistence_error"
)

// Config tunes the check-in decision.
type Config struct {
	Verification verification.Config
	// BlockMediumRisk extends the spoof gate from high to medium risk.
	BlockMediumRisk bool
	// RepeatVisitWindow marks a check-in as a repeat when the user already has
	// an accepted check-in at the venue this recently. Zero disables it.
	RepeatVisitWindow time.Duration
	// IPHashKey keys the blake2b hash of client addresses in audit rows.
	IPHashKey []byte
}

func DefaultConfig() Config {
	return Config{
		Verification:      verification.DefaultConfig(),
		RepeatVisitWindow: 24 * time.Hour,
	}
}

// Options carry per-call inputs.
type Options struct {
	// Source labels the client, e.g. "ios".
	Source string
	// Verification replaces the service verification config for this call.
	Verification *verification.Config
}

type Service struct {
	venues   VenueDirectory
	store    Store
	awards   Awarder
	detector *antispoof.Detector
	tx       tx.Runner
	auditor  AuditPublisher
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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

// WithTxRunner sets the unit of work that wraps the check-in row and its
// outbox event.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		s.tx = r
	}
}

func WithDetector(d *antispoof.Detector) Option {
	return func(s *Service) {
		s.detector = d
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

func New(venues VenueDirectory, store Store, awards Awarder, opts ...Option) (*Service, error) {
	if venues == nil {
		return nil, errors.New("venue directory is required")
	}
	if store == nil {
		return nil, errors.New("checkin store is required")
	}
	if awards == nil {
		return nil, errors.New("awarder is required")
	}
	s := &Service{
		venues: venues,
		store:  store,
		awards: awards,
		tx:     tx.MemoryRunner{},
		cfg:    DefaultConfig(),
		tracer: otel.Tracer("spotter/checkin"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.detector == nil {
		s.detector = antispoof.New()
	}
	if len(s.cfg.IPHashKey) > blake2b.Size {
		return nil, errors.New("ip hash key must be at most 64 bytes")
	}
	return s, nil
}

// Checkin decides whether the user is at the venue and records the attempt.
// Denials come back as a Result with Success=false and a nil error. A
// non-nil error means the attempt could not be persisted and is safe to retry;
// the Result then carries ErrPersistence.
func (s *Service) Checkin(ctx context.Context, userID id.UserID, venueID id.VenueID, coord geo.Coordinate, opts Options) (*models.Result, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveLatency(time.Since(start).Seconds()) }()

	ctx, span := s.tracer.Start(ctx, "checkin.Checkin", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.String("venue_id", venueID.String()),
		attribute.String("source", opts.Source),
	))
	defer span.End()

	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if !coord.InRange() {
		return nil, dErrors.New(dErrors.CodeValidation, "coordinates out of range")
	}

	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncOutcome(outcomeVenueNotFound)
			return models.Denied(models.ErrVenueNotFound, "venue not found"), nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "venue lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up venue")
	}
	venueLoc, ok := venue.Location()
	if !ok {
		s.metrics.IncOutcome(outcomeVenueNoLocation)
		return models.Denied(models.ErrVenueLocationUnavailable, "venue has no location on file"), nil
	}

	cfg := s.verificationConfig(venue, opts)
	now := requestcontext.Now(ctx)
	verdict := verification.Verify(coord, venueLoc, cfg)
	assessment := s.detector.AssessAt(coord, now)
	spoofBlocked := s.blocks(assessment.RiskLevel)
	accepted := verdict.IsValid && !spoofBlocked

	s.metrics.ObserveDistance(verdict.DistanceMeters)
	s.metrics.IncRiskLevel(string(assessment.RiskLevel))
	span.SetAttributes(
		attribute.Float64("distance_meters", verdict.DistanceMeters),
		attribute.String("confidence", string(verdict.Confidence)),
		attribute.String("risk_level", string(assessment.RiskLevel)),
		attribute.Bool("accepted", accepted),
	)

	repeat := false
	if accepted {
		repeat = s.isRepeatVisit(ctx, userID, venueID, now)
	}

	rec := &models.Record{
		ID:          id.NewCheckinID(),
		UserID:      userID,
		VenueID:     venueID,
		Coordinate:  coord,
		Verdict:     verdict,
		RiskLevel:   assessment.RiskLevel,
		Accepted:    accepted,
		Source:      opts.Source,
		CheckedInAt: now,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.InsertCheckin(ctx, rec); err != nil {
			return err
		}
		return s.emitOutcome(ctx, rec, assessment, spoofBlocked)
	})
	if err != nil {
		s.metrics.IncOutcome(outcomePersistenceError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "check-in not persisted")
		s.logError(ctx, "failed to persist check-in", err, "user_id", userID.String(), "venue_id", venueID.String())
		result := models.Denied(models.ErrPersistence, "check-in could not be saved, please retry")
		return result, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist check-in")
	}

	s.recordAudit(ctx, rec, assessment)

	switch {
	case spoofBlocked:
		s.metrics.IncOutcome(outcomeSpoofBlocked)
		result := models.Denied(models.ErrLocationVerificationFailed, models.SpoofDenialMessage)
		result.CheckinID = rec.ID
		result.Verdict = &verdict
		return result, nil
	case !verdict.IsValid:
		s.metrics.IncOutcome(outcomeVerificationFailed)
		result := models.Denied(models.ErrLocationVerificationFailed, verdict.Explain())
		result.CheckinID = rec.ID
		result.Verdict = &verdict
		result.HighAccuracyRequested = cfg.EnableHighAccuracy
		return result, nil
	}

	s.metrics.IncOutcome(outcomeAccepted)
	badges, err := s.awards.Evaluate(ctx, userID, venueID, rec.ID)
	if err != nil {
		s.metrics.IncAwardFailure()
		s.logError(ctx, "award evaluation failed", err, "user_id", userID.String(), "checkin_id", rec.ID.String())
	}
	if badges == nil {
		badges = []awardmodels.Badge{}
	}

	return &models.Result{
		Success:      true,
		CheckinID:    rec.ID,
		Verdict:      &verdict,
		BadgesEarned: badges,
		RepeatVisit:  repeat,
	}, nil
}

// verificationConfig picks the per-call override, then applies the venue's
// own radius when it has one.
func (s *Service) verificationConfig(v *venuemodels.Venue, opts Options) verification.Config {
	cfg := s.cfg.Verification
	if opts.Verification != nil {
		cfg = *opts.Verification
	}
	if v.RadiusMeters != nil && *v.RadiusMeters > 0 {
		cfg.BaseMaxDistance = *v.RadiusMeters
	}
	return cfg
}

func (s *Service) blocks(level antispoof.RiskLevel) bool {
	switch level {
	case antispoof.RiskHigh:
		return true
	case antispoof.RiskMedium:
		return s.cfg.BlockMediumRisk
	}
	return false
}

func (s *Service) isRepeatVisit(ctx context.Context, userID id.UserID, venueID id.VenueID, now time.Time) bool {
	if s.cfg.RepeatVisitWindow <= 0 {
		return false
	}
	seen, err := s.store.HasVerifiedVisitSince(ctx, userID, venueID, now.Add(-s.cfg.RepeatVisitWindow))
	if err != nil {
		s.logError(ctx, "recent visit lookup failed", err, "user_id", userID.String(), "venue_id", venueID.String())
		return false
	}
	return seen
}

// emitOutcome writes the outcome events for rec. Errors abort the
// surrounding transaction.
func (s *Service) emitOutcome(ctx context.Context, rec *models.Record, a antispoof.Assessment, spoofBlocked bool) error {
	if s.auditor == nil {
		return nil
	}
	attrs := map[string]any{
		"distance_meters":    rec.Verdict.DistanceMeters,
		"max_allowed_meters": rec.Verdict.MaxAllowedMeters,
		"accuracy_meters":    rec.Verdict.AccuracyMeters,
		"confidence":         string(rec.Verdict.Confidence),
		"risk_level":         string(a.RiskLevel),
		"risk_score":         a.RiskScore,
		"source":             rec.Source,
	}
	eventType := audit.EventCheckinRecorded
	if !rec.Accepted {
		eventType = audit.EventCheckinDenied
		attrs["spoof_blocked"] = spoofBlocked
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Type:       eventType,
		UserID:     rec.UserID,
		VenueID:    rec.VenueID,
		CheckinID:  rec.ID,
		Timestamp:  rec.CheckedInAt,
		Attributes: attrs,
	}); err != nil {
		return err
	}
	if a.RiskLevel == antispoof.RiskLow {
		return nil
	}
	return s.auditor.Emit(ctx, audit.Event{
		Type:      audit.EventSpoofFlagged,
		UserID:    rec.UserID,
		VenueID:   rec.VenueID,
		CheckinID: rec.ID,
		Timestamp: rec.CheckedInAt,
		Attributes: map[string]any{
			"risk_level": string(a.RiskLevel),
			"risk_score": a.RiskScore,
			"reasons":    a.Reasons,
			"blocked":    spoofBlocked,
		},
	})
}

// recordAudit is best effort. A failed write is logged and counted; the
// check-in stands.
func (s *Service) recordAudit(ctx context.Context, rec *models.Record, a antispoof.Assessment) {
	row := &models.Audit{
		ID:           id.NewAuditID(),
		CheckinID:    rec.ID,
		UserID:       rec.UserID,
		VenueID:      rec.VenueID,
		Verdict:      rec.Verdict,
		Assessment:   a,
		ClientIPHash: s.hashIP(requestcontext.ClientIP(ctx)),
		Device:       requestcontext.Device(ctx),
		RecordedAt:   rec.CheckedInAt,
	}
	if err := s.store.InsertAudit(ctx, row); err != nil {
		s.metrics.IncAuditFailure()
		s.logError(ctx, "failed to write verification audit", err, "checkin_id", rec.ID.String())
	}
}

func (s *Service) hashIP(ip string) string {
	if ip == "" {
		return ""
	}
	h, err := blake2b.New256(s.cfg.IPHashKey)
	if err != nil {
		return ""
	}
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Service) logError(ctx context.Context, msg string, err error, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", requestcontext.RequestID(ctx), "error", err)
	s.logger.ErrorContext(ctx, msg, args...)
}
