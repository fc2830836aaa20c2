package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/eventaura/internal/dbx"
	"github.com/dmitrijs2005/eventaura/internal/server/migrations"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/events"
	"github.com/dmitrijs2005/eventaura/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager serves single-node deployments from a local file.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLiteRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewSQLRepository(db)
}

// RunMigrations applies the embedded sqlite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}

// SQLiteDSN appends the connection pragmas the repositories rely on: WAL and
// a busy timeout so concurrent writers queue instead of failing, enforced
// foreign keys, and a sortable time format.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_time_format=sqlite"
}
