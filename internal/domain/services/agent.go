package services

import (
	"context"

	agentmodels "staffdesk/internal/domain/models/agent"
)

// AgentService drives the conversational agent.
type AgentService interface {
	EventRecorder

	// Chat runs one agent invocation for the session. A failed invocation is
	// still a result (Success false, generic reply); the error return is for
	// requests that could not start at all.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// RecordEvent injects a free-text system note into the session
	RecordEvent(ctx context.Context, req *RecordEventRequest) error

	// ResetMemory clears the session's conversation
	ResetMemory(ctx context.Context, sessionID string) error

	// History returns a copy of the session's conversation
	History(ctx context.Context, sessionID string) ([]agentmodels.Turn, error)
}

// ChatRequest is one user utterance
type ChatRequest struct {
	SessionID string `json:"-"`
	Message   string `json:"message"`
}

// ChatResult is the outcome of one agent invocation
type ChatResult struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
	// Mutated tells callers to refresh cached views of the data
	Mutated bool   `json:"mutated"`
	State   string `json:"state"`
	Rounds  int    `json:"rounds"`
}

// RecordEventRequest describes something that happened outside the agent
type RecordEventRequest struct {
	SessionID   string `json:"-"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
}
