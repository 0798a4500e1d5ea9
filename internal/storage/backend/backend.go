// Package backend opens the store selected by a database URL.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/vacameet/vaca-meet-api/internal/storage"
	"github.com/vacameet/vaca-meet-api/internal/storage/postgres"
	"github.com/vacameet/vaca-meet-api/internal/storage/sqlite"
)

// Open returns a migrated store for databaseURL.
//
//	postgres://... or postgresql://...  Postgres via pgx
//	sqlite://path/to/file.db            SQLite file
//	file:path/to/file.db                SQLite file (URI form passed through)
func Open(ctx context.Context, databaseURL string) (storage.Store, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.New(ctx, url)
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(ctx, strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(ctx, url)
	default:
		return nil, fmt.Errorf("unsupported database url scheme in %q", redact(url))
	}
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		return "***" + url[i:]
	}
	return url
}
