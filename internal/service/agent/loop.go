package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/repositories"
	"staffdesk/internal/service/agent/tools"
)

// Replies for the terminal states that have no reasoning-service answer.
const (
	ReplyTooManyRounds = "This task is too complex: I tried too many steps and stopped. Please break it into smaller requests."
	ReplyFailure       = "Sorry, something went wrong while handling that request. Please try again."
)

// State is a position in the agent loop state machine.
type State string

const (
	StateAwaitingReasoning    State = "awaiting-reasoning"
	StateAwaitingToolResults  State = "awaiting-tool-results"
	StateDone                 State = "done"
	StateAbortedTooManyRounds State = "aborted-too-many-rounds"
	StateErrored              State = "errored"
)

// Terminal reports whether the loop stops in this state.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAbortedTooManyRounds || s == StateErrored
}

// Reasoner performs one reasoning-service round trip. It returns either a
// RoleAssistant turn with content or a RoleAssistantToolRequests turn.
type Reasoner interface {
	Next(ctx context.Context, turns []agentmodels.Turn, catalog []tools.Definition) (agentmodels.Turn, error)
}

// ToolRunner executes tool calls in order.
type ToolRunner interface {
	Definitions() []tools.Definition
	ExecuteSequential(ctx context.Context, calls []tools.ToolCall) []tools.ToolResult
}

// Result is the outcome of one invocation.
type Result struct {
	Reply   string
	Mutated bool
	State   State
	// Rounds is how many rounds executed tools
	Rounds int
	// Err is the cause of StateErrored
	Err error
}

// Loop drives reasoning rounds and tool execution for one conversation.
type Loop struct {
	reasoner  Reasoner
	tools     ToolRunner
	schema    repositories.SchemaInspector
	prompt    *PromptTemplate
	maxRounds int
	logger    *slog.Logger
}

// LoopConfig holds the loop's collaborators.
type LoopConfig struct {
	Reasoner  Reasoner
	Tools     ToolRunner
	Schema    repositories.SchemaInspector
	Prompt    *PromptTemplate
	MaxRounds int
	Logger    *slog.Logger
}

// NewLoop creates a loop. MaxRounds must be positive.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	switch {
	case cfg.Reasoner == nil:
		return nil, errors.New("agent loop: reasoner is required")
	case cfg.Tools == nil:
		return nil, errors.New("agent loop: tools are required")
	case cfg.Schema == nil:
		return nil, errors.New("agent loop: schema inspector is required")
	case cfg.Prompt == nil:
		return nil, errors.New("agent loop: prompt template is required")
	case cfg.MaxRounds < 1:
		return nil, fmt.Errorf("agent loop: max rounds must be at least 1, got %d", cfg.MaxRounds)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		reasoner:  cfg.Reasoner,
		tools:     cfg.Tools,
		schema:    cfg.Schema,
		prompt:    cfg.Prompt,
		maxRounds: cfg.MaxRounds,
		logger:    logger,
	}, nil
}

// Run handles one user utterance against memory. It always returns a reply;
// Mutated reports whether any mutating tool ran, whatever the final state.
// Callers must not run two invocations on the same memory at once.
func (l *Loop) Run(ctx context.Context, memory *Memory, utterance string) Result {
	res := Result{State: StateAwaitingReasoning}

	schema, err := l.schema.DescribeSchema(ctx)
	if err != nil {
		return l.fail(res, fmt.Errorf("describe schema: %w", err))
	}
	memory.EnsureInstruction(l.prompt.Build(schema))
	memory.Append(agentmodels.NewUserTurn(utterance))

	catalog := l.tools.Definitions()
	rounds := 0
	var pending agentmodels.Turn

	for !res.State.Terminal() {
		switch res.State {
		case StateAwaitingReasoning:
			turn, err := l.reasoner.Next(ctx, memory.Snapshot(), catalog)
			if err != nil {
				return l.fail(res, fmt.Errorf("reasoning round %d: %w", rounds+1, err))
			}
			memory.Append(turn)

			if turn.Role != agentmodels.RoleAssistantToolRequests {
				res.Reply = turn.Content
				res.State = StateDone
				break
			}

			rounds++
			if rounds > l.maxRounds {
				l.logger.Warn("agent round limit reached",
					"max_rounds", l.maxRounds,
					"mutated", res.Mutated,
				)
				res.Reply = ReplyTooManyRounds
				res.State = StateAbortedTooManyRounds
				break
			}
			l.logger.Debug("agent round",
				"round", rounds,
				"tool_count", len(turn.ToolRequests),
			)
			pending = turn
			res.State = StateAwaitingToolResults

		case StateAwaitingToolResults:
			calls := make([]tools.ToolCall, len(pending.ToolRequests))
			for i, req := range pending.ToolRequests {
				calls[i] = tools.ToolCall{ID: req.ID, Name: req.Name, Arguments: req.Arguments}
			}

			results := l.tools.ExecuteSequential(ctx, calls)
			resultTurns := make([]agentmodels.Turn, len(results))
			for i, r := range results {
				if r.Mutating {
					res.Mutated = true
				}
				l.logger.Info("tool executed",
					"tool", r.Name,
					"tool_call_id", r.ID,
					"mutating", r.Mutating,
					"is_error", r.IsError,
				)
				resultTurns[i] = agentmodels.NewToolResultTurn(r.ID, r.Content)
			}
			memory.Append(resultTurns...)
			res.Rounds = rounds

			if err := ctx.Err(); err != nil {
				return l.fail(res, fmt.Errorf("tool round %d: %w", rounds, err))
			}
			res.State = StateAwaitingReasoning
		}
	}

	l.logger.Info("agent invocation finished",
		"state", res.State,
		"rounds", res.Rounds,
		"mutated", res.Mutated,
	)
	return res
}

func (l *Loop) fail(res Result, err error) Result {
	res.State = StateErrored
	res.Reply = ReplyFailure
	res.Err = err
	l.logger.Error("agent invocation failed",
		"error", err,
		"rounds", res.Rounds,
		"mutated", res.Mutated,
	)
	return res
}
