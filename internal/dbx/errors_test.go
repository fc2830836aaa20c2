package dbx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))

	err = fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23503"})
	assert.False(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS u (email TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM u`)
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), `INSERT INTO u (email) VALUES ($1)`, "a@x.com")
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), `INSERT INTO u (email) VALUES ($1)`, "a@x.com")
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(fmt.Errorf("db error: %w", err)))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
