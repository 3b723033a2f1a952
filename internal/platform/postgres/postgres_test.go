package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotter/internal/platform/config"
)

func TestOpen_EmptyURL(t *testing.T) {
	db, err := Open(context.Background(), config.Database{})
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert checkin: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
}
