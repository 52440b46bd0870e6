// Package agent holds the conversation types shared by the agent loop, its
// memory and the reasoning service client.
package agent

import (
	"encoding/json"
	"slices"
	"time"
)

// Role identifies what produced a turn.
type Role string

const (
	RoleInstruction           Role = "instruction"
	RoleUser                  Role = "user"
	RoleAssistant             Role = "assistant"
	RoleAssistantToolRequests Role = "assistant-with-tool-requests"
	RoleToolResult            Role = "tool-result"
	RoleSystemNote            Role = "system-note"
)

// ToolRequest is one tool invocation asked for by the reasoning service.
type ToolRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Turn is one entry of the conversation log.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolRequests is set for RoleAssistantToolRequests, in the order given.
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`

	// CorrelatesTo is the ToolRequest.ID a RoleToolResult answers.
	CorrelatesTo string `json:"correlates_to,omitempty"`

	// Event is the typed payload of a RoleSystemNote. Content stays empty
	// for notes; the event is rendered only when sent to the reasoning service.
	Event *Event `json:"event,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewInstructionTurn builds the pinned instruction turn.
func NewInstructionTurn(text string) Turn {
	return Turn{Role: RoleInstruction, Content: text, CreatedAt: time.Now()}
}

// NewUserTurn builds a user utterance turn.
func NewUserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: text, CreatedAt: time.Now()}
}

// NewAssistantTurn builds a final-answer turn.
func NewAssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Content: text, CreatedAt: time.Now()}
}

// NewToolRequestTurn builds an assistant turn that asks for tool invocations.
func NewToolRequestTurn(content string, requests []ToolRequest) Turn {
	return Turn{
		Role:         RoleAssistantToolRequests,
		Content:      content,
		ToolRequests: requests,
		CreatedAt:    time.Now(),
	}
}

// NewToolResultTurn builds the result turn for the request with the given id.
func NewToolResultTurn(requestID, content string) Turn {
	return Turn{
		Role:         RoleToolResult,
		Content:      content,
		CorrelatesTo: requestID,
		CreatedAt:    time.Now(),
	}
}

// NewNoteTurn wraps an out-of-band event as a system note.
func NewNoteTurn(event Event) Turn {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return Turn{Role: RoleSystemNote, Event: &event, CreatedAt: event.OccurredAt}
}

// Text returns what the reasoning service reads for this turn.
func (t Turn) Text() string {
	if t.Role == RoleSystemNote && t.Event != nil {
		return t.Event.Render()
	}
	return t.Content
}

// Clone returns a copy that shares no mutable state with t.
func (t Turn) Clone() Turn {
	out := t
	if t.ToolRequests != nil {
		out.ToolRequests = make([]ToolRequest, len(t.ToolRequests))
		for i, req := range t.ToolRequests {
			out.ToolRequests[i] = req
			out.ToolRequests[i].Arguments = slices.Clone(req.Arguments)
		}
	}
	if t.Event != nil {
		ev := t.Event.clone()
		out.Event = &ev
	}
	return out
}

// CloneTurns deep-copies a slice of turns.
func CloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = t.Clone()
	}
	return out
}
