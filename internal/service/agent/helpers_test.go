package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"staffdesk/internal/domain/models"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/repository/sqlite"
	"staffdesk/internal/service/agent/tools"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.EmployeeRepository {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewEmployeeRepository(&sqlite.RepositoryConfig{
		DB:     db,
		Prefix: "test_",
		Logger: discardLogger(),
	})
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

// step produces one scripted reasoning-service answer.
type step func(turns []agentmodels.Turn) (agentmodels.Turn, error)

// scriptedReasoner replays steps in order and repeats the last one forever.
type scriptedReasoner struct {
	mu    sync.Mutex
	steps []step
	calls int
	seen  [][]agentmodels.Turn
}

func (r *scriptedReasoner) Next(ctx context.Context, turns []agentmodels.Turn, catalog []tools.Definition) (agentmodels.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen = append(r.seen, turns)
	i := r.calls
	if i >= len(r.steps) {
		i = len(r.steps) - 1
	}
	r.calls++
	return r.steps[i](turns)
}

func (r *scriptedReasoner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func answer(text string) step {
	return func([]agentmodels.Turn) (agentmodels.Turn, error) {
		return agentmodels.NewAssistantTurn(text), nil
	}
}

func fail(err error) step {
	return func([]agentmodels.Turn) (agentmodels.Turn, error) {
		return agentmodels.Turn{}, err
	}
}

func request(reqs ...agentmodels.ToolRequest) step {
	return func([]agentmodels.Turn) (agentmodels.Turn, error) {
		return agentmodels.NewToolRequestTurn("", reqs), nil
	}
}

func toolReq(id, name string, args any) agentmodels.ToolRequest {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return agentmodels.ToolRequest{ID: id, Name: name, Arguments: raw}
}

var errReasoning = errors.New("reasoning service unavailable")

// fakeSchema returns a fixed schema description.
type fakeSchema struct {
	text string
	err  error
}

func (f fakeSchema) DescribeSchema(ctx context.Context) (string, error) {
	return f.text, f.err
}

func newTestPrompt(t *testing.T) *PromptTemplate {
	t.Helper()
	prompt, err := LoadPromptTemplate()
	require.NoError(t, err)
	return prompt
}

func newTestLoop(t *testing.T, reasoner Reasoner, runner ToolRunner, maxRounds int) *Loop {
	t.Helper()
	loop, err := NewLoop(LoopConfig{
		Reasoner:  reasoner,
		Tools:     runner,
		Schema:    fakeSchema{text: "Database schema:\nTable test_employees: id (INTEGER)"},
		Prompt:    newTestPrompt(t),
		MaxRounds: maxRounds,
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	return loop
}

// recordingRunner executes nothing and records the calls it was given.
type recordingRunner struct {
	mu       sync.Mutex
	executed []string
	mutating map[string]bool
}

func (r *recordingRunner) Definitions() []tools.Definition {
	return tools.Catalog()
}

func (r *recordingRunner) ExecuteSequential(ctx context.Context, calls []tools.ToolCall) []tools.ToolResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]tools.ToolResult, len(calls))
	for i, c := range calls {
		r.executed = append(r.executed, c.ID)
		results[i] = tools.ToolResult{
			ID:       c.ID,
			Name:     c.Name,
			Content:  "result of " + c.ID,
			Mutating: r.mutating[c.Name],
		}
	}
	return results
}

func ptrEmployee(name, position string, salary float64) *models.Employee {
	return &models.Employee{Name: name, Position: position, Salary: salary}
}
