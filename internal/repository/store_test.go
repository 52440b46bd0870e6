package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/config"
	"staffdesk/internal/domain/models"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DatabaseDriver: config.DriverSQLite, DatabaseURL: ":memory:", TablePrefix: "test_"}

	store, closeStore, err := Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeStore()

	employee := &models.Employee{Name: "Ada", Position: "Engineer", Salary: 100}
	require.NoError(t, store.Create(ctx, employee))

	schema, err := store.DescribeSchema(ctx)
	require.NoError(t, err)
	assert.Contains(t, schema, "test_employees")

	// Migrating twice is a no-op
	require.NoError(t, store.Migrate(ctx))
	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: "oracle"}
	_, _, err := Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_DropTable(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DatabaseDriver: config.DriverSQLite, DatabaseURL: ":memory:", TablePrefix: "test_"}

	store, closeStore, err := Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Create(ctx, &models.Employee{Name: "Ada", Position: "Engineer", Salary: 100}))
	require.NoError(t, store.DropTable(ctx))
	require.NoError(t, store.Migrate(ctx))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
