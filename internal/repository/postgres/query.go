package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"staffdesk/internal/domain"
	"staffdesk/internal/domain/repositories"
)

// RunReadOnly executes statement inside a READ ONLY transaction
func (r *PostgresEmployeeRepository) RunReadOnly(ctx context.Context, statement string) ([]map[string]any, error) {
	if !repositories.IsReadOnlyStatement(statement) {
		return nil, domain.ErrReadOnly
	}

	var result []map[string]any
	err := r.tx.ExecReadOnlyTx(ctx, func(ctx context.Context) error {
		rows, err := GetExecutor(ctx, r.pool).Query(ctx, statement)
		if err != nil {
			return err
		}

		result, err = pgx.CollectRows(rows, pgx.RowToMap)
		return err
	})
	if err != nil {
		if IsPgReadOnlyError(err) {
			return nil, domain.ErrReadOnly
		}
		return nil, fmt.Errorf("run query: %w", err)
	}

	for _, row := range result {
		for k, v := range row {
			row[k] = normalizeValue(v)
		}
	}

	r.logger.Debug("read-only query executed", "rows", len(result))
	return result, nil
}

// DescribeSchema lists the tables of the current schema with their columns
func (r *PostgresEmployeeRepository) DescribeSchema(ctx context.Context) (string, error) {
	query := `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		ORDER BY table_name, ordinal_position
	`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
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

// normalizeValue converts driver types without a natural JSON form.
func normalizeValue(v any) any {
	switch tv := v.(type) {
	case pgtype.Numeric:
		f, err := tv.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}
