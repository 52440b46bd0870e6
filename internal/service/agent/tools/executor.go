package tools

import (
	"context"
	"encoding/json"
)

// ToolExecutor defines the interface for executing a tool.
// Implementations must be safe for concurrent use and respect context cancellation.
type ToolExecutor interface {
	// Execute runs the tool with the raw JSON arguments sent by the reasoning service.
	// Logical failures (not found, nothing to change) are returned as text with a nil
	// error. A non-nil error means the tool could not run at all; the registry turns
	// it into a failure text as well.
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}
