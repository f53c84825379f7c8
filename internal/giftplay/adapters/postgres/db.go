package postgres

import (
	"context"
	"database/sql"
)

// DB is the single write seam the gift archive needs. Archiving is
// insert-only, so one exec method keeps the repository trivially fakeable.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
