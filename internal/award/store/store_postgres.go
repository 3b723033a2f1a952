package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"spotter/internal/award/models"
	id "spotter/pkg/domain"
)

// PostgresStore relies on the unique index badges(user_id, badge_type,
// scope_id). The insert either wins the race and returns its row, or hits
// the conflict and returns nothing, in one statement.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const badgeColumns = `id, user_id, badge_type, scope_id, name, description, rarity, earned_at, checkin_id, metadata`

func (s *PostgresStore) UpsertBadgeIfAbsent(ctx context.Context, badge *models.Badge) (models.UpsertResult, error) {
	meta, err := json.Marshal(badge.Metadata)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("marshal badge metadata: %w", err)
	}

	var checkinID any
	if !badge.CheckinID.IsNil() {
		checkinID = badge.CheckinID.String()
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO badges (`+badgeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, badge_type, scope_id) DO NOTHING
		RETURNING `+badgeColumns,
		badge.ID.String(),
		badge.UserID.String(),
		string(badge.Type),
		badge.ScopeID,
		badge.Name,
		badge.Description,
		string(badge.Rarity),
		badge.EarnedAt,
		checkinID,
		meta,
	)
	inserted, err := scanBadge(row)
	if err == nil {
		return models.UpsertResult{Inserted: true, Badge: *inserted}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.UpsertResult{}, fmt.Errorf("upsert badge: %w", err)
	}

	existing, err := scanBadge(s.db.QueryRowContext(ctx, `
		SELECT `+badgeColumns+`
		FROM badges
		WHERE user_id = $1 AND badge_type = $2 AND scope_id = $3
	`, badge.UserID.String(), string(badge.Type), badge.ScopeID))
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("read existing badge: %w", err)
	}
	return models.UpsertResult{Inserted: false, Badge: *existing}, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]models.Badge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+badgeColumns+`
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_at DESC, badge_type
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	out := []models.Badge{}
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (*models.Badge, error) {
	var (
		b         models.Badge
		rawID     string
		rawUser   string
		badgeType string
		rarity    string
		checkinID sql.NullString
		meta      []byte
	)
	if err := row.Scan(&rawID, &rawUser, &badgeType, &b.ScopeID, &b.Name, &b.Description, &rarity, &b.EarnedAt, &checkinID, &meta); err != nil {
		return nil, err
	}
	if err := b.ID.UnmarshalText([]byte(rawID)); err != nil {
		return nil, err
	}
	if err := b.UserID.UnmarshalText([]byte(rawUser)); err != nil {
		return nil, err
	}
	if checkinID.Valid {
		if err := b.CheckinID.UnmarshalText([]byte(checkinID.String)); err != nil {
			return nil, err
		}
	}
	b.Type = models.BadgeType(badgeType)
	b.Rarity = models.Rarity(rarity)
	if len(meta) > 0 && string(meta) != "null" {
		if err := json.Unmarshal(meta, &b.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal badge metadata: %w", err)
		}
	}
	return &b, nil
}
