package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ToolCall represents a single tool invocation request.
type ToolCall struct {
	ID        string          `json:"id"`        // tool call id from the reasoning service
	Name      string          `json:"name"`      // tool name
	Arguments json.RawMessage `json:"arguments"` // raw JSON arguments
}

// ToolResult represents the outcome of a tool execution. Content is always
// set; it is what the reasoning service reads back.
type ToolResult struct {
	ID       string `json:"id"`       // matches ToolCall.ID
	Name     string `json:"name"`     // matches ToolCall.Name
	Content  string `json:"content"`  // human-readable status text
	IsError  bool   `json:"is_error"` // the tool could not run
	Mutating bool   `json:"mutating"` // the tool is a mutating tool
}

type registeredTool struct {
	def      Definition
	executor ToolExecutor
}

// ToolRegistry manages tool executors and handles tool execution.
// It is thread-safe and can be used concurrently.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]registeredTool
	order  []string
	logger *slog.Logger
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry(logger *slog.Logger) *ToolRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolRegistry{
		tools:  make(map[string]registeredTool),
		logger: logger,
	}
}

// Register adds a tool to the registry.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(def Definition, executor ToolExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = registeredTool{def: def, executor: executor}
}

// Get retrieves a tool executor by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) ToolExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name].executor
}

// Definitions returns the catalog of registered tools in registration order.
func (r *ToolRegistry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// IsMutating reports whether the named tool changes data.
func (r *ToolRegistry) IsMutating(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name].def.Mutating
}

// Execute runs a single tool and returns the result. It never fails: unknown
// tools, bad arguments and execution errors all become failure text.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall) ToolResult {
	r.mu.RLock()
	tool, ok := r.tools[call.Name]
	r.mu.RUnlock()

	result := ToolResult{ID: call.ID, Name: call.Name, Mutating: tool.def.Mutating}
	if !ok {
		result.IsError = true
		result.Content = fmt.Sprintf("Operation failed: unknown tool %q.", call.Name)
		return result
	}

	content, err := tool.executor.Execute(ctx, call.Arguments)
	if err != nil {
		result.IsError = true
		if errors.Is(err, ErrInvalidArguments) {
			result.Content = fmt.Sprintf("Operation rejected: %v.", err)
		} else {
			result.Content = fmt.Sprintf("Operation failed: %v", err)
		}
		r.logger.Warn("tool execution failed",
			"tool", call.Name,
			"tool_call_id", call.ID,
			"error", err,
		)
		return result
	}

	result.Content = content
	return result
}

// ExecuteSequential runs the calls one after another, in the order given, and
// returns the results in the same order. Later calls observe the effects of
// earlier ones. Once ctx is done the remaining calls are reported as cancelled
// without running.
func (r *ToolRegistry) ExecuteSequential(ctx context.Context, calls []ToolCall) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			results = append(results, ToolResult{
				ID:       call.ID,
				Name:     call.Name,
				Content:  fmt.Sprintf("Operation not run: %v", err),
				IsError:  true,
				Mutating: r.IsMutating(call.Name),
			})
			continue
		}
		results = append(results, r.Execute(ctx, call))
	}
	return results
}
