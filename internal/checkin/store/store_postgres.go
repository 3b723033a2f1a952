package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"spotter/internal/checkin/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
	txcontext "spotter/pkg/platform/tx"
)

// PostgresStore persists attempts to checkins and audits to
// verification_audits. Ordinals read accepted rows only.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) InsertCheckin(ctx context.Context, rec *models.Record) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO checkins (
			id, user_id, venue_id, latitude, longitude, accuracy_meters, captured_at,
			distance_meters, max_allowed_meters, effective_accuracy_meters, confidence,
			is_valid, risk_level, accepted, source, checked_in_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		rec.ID.String(),
		rec.UserID.String(),
		rec.VenueID.String(),
		rec.Coordinate.Latitude,
		rec.Coordinate.Longitude,
		rec.Coordinate.AccuracyMeters,
		rec.Coordinate.CapturedAt,
		rec.Verdict.DistanceMeters,
		rec.Verdict.MaxAllowedMeters,
		rec.Verdict.AccuracyMeters,
		string(rec.Verdict.Confidence),
		rec.Verdict.IsValid,
		string(rec.RiskLevel),
		rec.Accepted,
		rec.Source,
		rec.CheckedInAt,
	)
	if err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertAudit(ctx context.Context, a *models.Audit) error {
	reasons := a.Assessment.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO verification_audits (
			id, checkin_id, user_id, venue_id, distance_meters, max_allowed_meters,
			accuracy_meters, confidence, is_valid, suspicious, risk_score, risk_level,
			reasons, client_ip_hash, device, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		a.ID.String(),
		a.CheckinID.String(),
		a.UserID.String(),
		a.VenueID.String(),
		a.Verdict.DistanceMeters,
		a.Verdict.MaxAllowedMeters,
		a.Verdict.AccuracyMeters,
		string(a.Verdict.Confidence),
		a.Verdict.IsValid,
		a.Assessment.Suspicious,
		a.Assessment.RiskScore,
		string(a.Assessment.RiskLevel),
		pq.Array(reasons),
		nullString(a.ClientIPHash),
		nullString(a.Device),
		a.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification audit: %w", err)
	}
	return nil
}

func (s *PostgresStore) HasVerifiedVisitSince(ctx context.Context, userID id.UserID, venueID id.VenueID, since time.Time) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM checkins
			WHERE user_id = $1 AND venue_id = $2 AND accepted AND checked_in_at >= $3
		)
	`, userID.String(), venueID.String(), since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query recent visit: %w", err)
	}
	return exists, nil
}

// CheckinOrdinal is the 1-based position of an accepted check-in in the
// user's history, ordered by (checked_in_at, id).
func (s *PostgresStore) CheckinOrdinal(ctx context.Context, userID id.UserID, checkinID id.CheckinID) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx, `
		WITH target AS (
			SELECT checked_in_at, id FROM checkins
			WHERE id = $2 AND user_id = $1 AND accepted
		)
		SELECT COUNT(c.id)
		FROM target t
		JOIN checkins c ON c.user_id = $1 AND c.accepted
			AND (c.checked_in_at, c.id) <= (t.checked_in_at, t.id)
	`, userID.String(), checkinID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("checkin ordinal: %w", err)
	}
	if n == 0 {
		return 0, sentinel.ErrNotFound
	}
	return n, nil
}

// VenueOrdinal counts the venues first visited at or before checkinID, or 0
// when the check-in is a repeat visit.
func (s *PostgresStore) VenueOrdinal(ctx context.Context, userID id.UserID, checkinID id.CheckinID) (int, error) {
	var (
		found bool
		first bool
		n     int
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		WITH target AS (
			SELECT venue_id, checked_in_at, id FROM checkins
			WHERE id = $2 AND user_id = $1 AND accepted
		), firsts AS (
			SELECT DISTINCT ON (venue_id) venue_id, checked_in_at, id
			FROM checkins
			WHERE user_id = $1 AND accepted
			ORDER BY venue_id, checked_in_at, id
		)
		SELECT
			EXISTS (SELECT 1 FROM target),
			EXISTS (SELECT 1 FROM target t JOIN firsts f ON f.id = t.id),
			(SELECT COUNT(*) FROM firsts f, target t
				WHERE (f.checked_in_at, f.id) <= (t.checked_in_at, t.id))
	`, userID.String(), checkinID.String()).Scan(&found, &first, &n)
	if err != nil {
		return 0, fmt.Errorf("venue ordinal: %w", err)
	}
	if !found {
		return 0, sentinel.ErrNotFound
	}
	if !first {
		return 0, nil
	}
	return n, nil
}

// AuditReasons returns the spoof reasons stored for a check-in.
func (s *PostgresStore) AuditReasons(ctx context.Context, checkinID id.CheckinID) ([]string, error) {
	var reasons []string
	err := s.db.QueryRowContext(ctx, `
		SELECT reasons FROM verification_audits WHERE checkin_id = $1
	`, checkinID.String()).Scan(pq.Array(&reasons))
	if err != nil {
		return nil, fmt.Errorf("read audit reasons: %w", err)
	}
	return reasons, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
