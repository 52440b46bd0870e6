// Package repository picks the storage backend named by the configuration.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"staffdesk/internal/config"
	"staffdesk/internal/domain/repositories"
	"staffdesk/internal/repository/postgres"
	"staffdesk/internal/repository/sqlite"
)

// Store is a migrated data store
type Store interface {
	repositories.DataStore

	// Migrate creates the employees table if it does not exist yet
	Migrate(ctx context.Context) error

	// DropTable removes the employees table
	DropTable(ctx context.Context) error
}

// Open connects to the configured backend and runs the migration.
// The returned close function releases the connection pool.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func(), error) {
	var (
		store   Store
		closeFn func()
	)

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
		if err != nil {
			return nil, nil, err
		}
		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		store = postgres.NewEmployeeRepository(repoConfig, postgres.NewTransactionManager(pool, logger))
		closeFn = pool.Close
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store = sqlite.NewEmployeeRepository(&sqlite.RepositoryConfig{
			DB:     db,
			Prefix: cfg.TablePrefix,
			Logger: logger,
		})
		closeFn = func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if err := store.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("database connected",
		"driver", cfg.DatabaseDriver,
		"table_prefix", cfg.TablePrefix,
	)
	return store, closeFn, nil
}
