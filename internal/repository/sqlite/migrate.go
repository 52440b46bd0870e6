package sqlite

import (
	"context"
	"fmt"
)

// Migrate creates the employees table if it does not exist yet
func (r *EmployeeRepository) Migrate(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				name       TEXT NOT NULL,
				position   TEXT NOT NULL,
				salary     REAL NOT NULL,
				created_at TEXT NOT NULL
			)
		`, r.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_name_idx ON %s (name)`, r.table, r.table),
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", r.table, err)
		}
	}
	return nil
}

// DropTable removes the employees table and everything in it
func (r *EmployeeRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, r.table)); err != nil {
		return fmt.Errorf("drop %s: %w", r.table, err)
	}
	return nil
}
