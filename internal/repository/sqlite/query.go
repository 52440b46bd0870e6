package sqlite

import (
	"context"
	"errors"
	"fmt"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/repositories"
)

// RunReadOnly executes statement on a connection with query_only enabled
func (r *EmployeeRepository) RunReadOnly(ctx context.Context, statement string) ([]map[string]any, error) {
	if !repositories.IsReadOnlyStatement(statement) {
		return nil, domain.ErrReadOnly
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("enable query_only: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF"); err != nil {
			r.logger.Warn("failed to reset query_only", "error", err)
		}
	}()

	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		if isReadOnlyError(err) {
			return nil, domain.ErrReadOnly
		}
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		if isReadOnlyError(err) {
			return nil, domain.ErrReadOnly
		}
		return nil, fmt.Errorf("run query: %w", err)
	}

	r.logger.Debug("read-only query executed", "rows", len(result))
	return result, nil
}

// DescribeSchema lists user tables with their declared column types
func (r *EmployeeRepository) DescribeSchema(ctx context.Context) (string, error) {
	query := `
		SELECT m.name, p.name, p.type
		FROM sqlite_master AS m
		JOIN pragma_table_info(m.name) AS p
		WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name, p.cid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("describe schema: %w", err)
	}
	defer rows.Close()

	var tables []repositories.TableSchema
	for rows.Next() {
		var table string
		var col repositories.ColumnSchema
		if err := rows.Scan(&table, &col.Name, &col.Type); err != nil {
			return "", fmt.Errorf("scan column: %w", err)
		}
		if n := len(tables); n == 0 || tables[n-1].Name != table {
			tables = append(tables, repositories.TableSchema{Name: table})
		}
		tables[len(tables)-1].Columns = append(tables[len(tables)-1].Columns, col)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("describe schema: %w", err)
	}

	return repositories.FormatSchema(tables), nil
}

// isReadOnlyError matches SQLITE_READONLY, raised for writes under query_only.
func isReadOnlyError(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		// Low byte is the primary result code
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_READONLY
	}
	return false
}
