package repomanager

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:/tmp/a.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite",
		SQLiteDSN("file:/tmp/a.db"))
	assert.Contains(t, SQLiteDSN("file:/tmp/a.db?cache=private"), "?cache=private&_pragma=")
}

func TestOpen_SQLiteAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	dsn := "sqlite:file:" + filepath.Join(t.TempDir(), "eventaura.db")

	db, m, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	assert.IsType(t, &SQLiteRepositoryManager{}, m)

	for _, table := range []string{"users", "events", "event_attendees"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&n))
		assert.Equal(t, 1, n, "table %s", table)
	}

	// idempotent
	db2, _, err := Open(ctx, dsn)
	require.NoError(t, err)
	_ = db2.Close()
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql://x")
	require.Error(t, err)
}
