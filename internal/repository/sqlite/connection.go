// Package sqlite implements the data store on SQLite through the pure-Go
// modernc.org/sqlite driver. It backs local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     *sql.DB
	Prefix string
	Logger *slog.Logger
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
//
// SQLite serializes writers anyway, so the pool is a single connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
