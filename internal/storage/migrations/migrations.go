// Package migrations embeds the schema for every supported SQL dialect and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Dialect names a migration set.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Up applies all pending migrations of dialect to db.
func Up(ctx context.Context, db *sql.DB, dialect Dialect) error {
	fsys, err := fs.Sub(files, string(dialect))
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dialect, err)
	}

	var gooseDialect database.Dialect
	switch dialect {
	case Postgres:
		gooseDialect = database.DialectPostgres
	case SQLite:
		gooseDialect = database.DialectSQLite3
	default:
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
