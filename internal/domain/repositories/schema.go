package repositories

import (
	"fmt"
	"strings"
)

// ColumnSchema is one column of an introspected table.
type ColumnSchema struct {
	Name string
	Type string
}

// TableSchema is one introspected table.
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
}

// FormatSchema renders one line per table, e.g.
//
//	Table employees: id (integer), name (text)
func FormatSchema(tables []TableSchema) string {
	if len(tables) == 0 {
		return "The database has no tables."
	}

	var b strings.Builder
	b.WriteString("Database schema:")
	for _, table := range tables {
		cols := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			cols[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
		}
		fmt.Fprintf(&b, "\nTable %s: %s", table.Name, strings.Join(cols, ", "))
	}
	return b.String()
}
