package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the employees table if it does not exist yet
func (r *PostgresEmployeeRepository) Migrate(ctx context.Context) error {
	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)

		table := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         BIGSERIAL PRIMARY KEY,
				name       VARCHAR(255) NOT NULL,
				position   VARCHAR(255) NOT NULL,
				salary     NUMERIC(12, 2) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`, r.tables.Employees)
		if _, err := executor.Exec(ctx, table); err != nil {
			return fmt.Errorf("create %s: %w", r.tables.Employees, err)
		}

		index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_name_idx ON %s (name)`,
			r.tables.Employees, r.tables.Employees)
		if _, err := executor.Exec(ctx, index); err != nil {
			return fmt.Errorf("create %s name index: %w", r.tables.Employees, err)
		}

		return nil
	})
}

// DropTable removes the employees table and everything in it
func (r *PostgresEmployeeRepository) DropTable(ctx context.Context) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, r.tables.Employees)); err != nil {
		return fmt.Errorf("drop %s: %w", r.tables.Employees, err)
	}
	return nil
}
