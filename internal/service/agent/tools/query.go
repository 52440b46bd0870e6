package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"staffdesk/internal/domain/repositories"
)

// QueryTool implements query_database.
type QueryTool struct {
	runner repositories.QueryRunner
	config *ToolConfig
	def    Definition
}

// NewQueryTool creates a new QueryTool instance.
func NewQueryTool(runner repositories.QueryRunner, def Definition, config *ToolConfig) *QueryTool {
	return &QueryTool{runner: runner, config: config, def: def}
}

// Execute implements ToolExecutor interface.
// Returns the rows as a JSON array of objects.
func (t *QueryTool) Execute(ctx context.Context, raw json.RawMessage) (string, error) {
	var args QueryArgs
	if err := decodeArgs(raw, t.def.RequiredFields(), &args); err != nil {
		return "", err
	}

	rows, err := t.runner.RunReadOnly(ctx, args.SQL)
	if err != nil {
		return "", err
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("serialize rows: %w", err)
	}

	if limit := t.config.MaxResultSize; limit > 0 && len(out) > limit {
		// Cut on a rune boundary
		for limit > 0 && !utf8.RuneStart(out[limit]) {
			limit--
		}
		return fmt.Sprintf("%s... (truncated, %d rows in total; narrow the query)", out[:limit], len(rows)), nil
	}
	return string(out), nil
}
