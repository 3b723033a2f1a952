package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spotter/internal/venue/models"
	id "spotter/pkg/domain"
	"spotter/pkg/platform/sentinel"
)

// PostgresStore reads venues from the venues table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetVenue(ctx context.Context, venueID id.VenueID) (*models.Venue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude, rarity, radius_meters
		FROM venues
		WHERE id = $1
	`, venueID.String())
	v, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return v, nil
}

// Put upserts a venue. Used by seeding and tests; the directory service owns
// venue writes in production.
func (s *PostgresStore) Put(ctx context.Context, v *models.Venue) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO venues (id, name, latitude, longitude, rarity, radius_meters)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			rarity = EXCLUDED.rarity,
			radius_meters = EXCLUDED.radius_meters
	`, v.ID.String(), v.Name, v.Latitude, v.Longitude, string(v.Rarity), v.RadiusMeters)
	if err != nil {
		return fmt.Errorf("put venue: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (*models.Venue, error) {
	var (
		rawID  string
		v      models.Venue
		lat    sql.NullFloat64
		lon    sql.NullFloat64
		radius sql.NullFloat64
		rarity sql.NullString
	)
	if err := row.Scan(&rawID, &v.Name, &lat, &lon, &rarity, &radius); err != nil {
		return nil, err
	}
	venueID, err := id.ParseVenueID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan venue id: %w", err)
	}
	v.ID = venueID
	v.Rarity = models.ParseRarity(rarity.String)
	if lat.Valid {
		v.Latitude = &lat.Float64
	}
	if lon.Valid {
		v.Longitude = &lon.Float64
	}
	if radius.Valid {
		v.RadiusMeters = &radius.Float64
	}
	return &v, nil
}
