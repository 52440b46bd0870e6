package reasoning

import (
	openai "github.com/sashabaranov/go-openai"

	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/service/agent/tools"
)

// renderMessages converts the turn log to chat-completion messages.
//
// The wire protocol requires every assistant tool call to be answered by tool
// messages immediately after it. The log does not always satisfy that: a round
// aborted at the limit leaves calls unanswered, trimming can separate results
// from their request, and notes can be injected while tools run. Unanswered
// calls and orphaned results are dropped, and notes that arrived inside a tool
// phase are emitted after its results.
func renderMessages(turns []agentmodels.Turn) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))

	for i := 0; i < len(turns); i++ {
		t := turns[i]
		switch t.Role {
		case agentmodels.RoleInstruction:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: t.Content})
		case agentmodels.RoleSystemNote:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: t.Text()})
		case agentmodels.RoleUser:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.Content})
		case agentmodels.RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Content})
		case agentmodels.RoleToolResult:
			// Not preceded by its request
		case agentmodels.RoleAssistantToolRequests:
			end := i + 1
			for end < len(turns) && (turns[end].Role == agentmodels.RoleToolResult || turns[end].Role == agentmodels.RoleSystemNote) {
				end++
			}
			msgs = append(msgs, renderToolPhase(t, turns[i+1:end])...)
			i = end - 1
		}
	}
	return msgs
}

// renderToolPhase renders one tool request turn and the results and notes that follow it.
func renderToolPhase(request agentmodels.Turn, phase []agentmodels.Turn) []openai.ChatCompletionMessage {
	pending := make(map[string]bool, len(request.ToolRequests))
	for _, req := range request.ToolRequests {
		pending[req.ID] = true
	}

	var results, notes []openai.ChatCompletionMessage
	answered := make(map[string]bool, len(request.ToolRequests))
	for _, t := range phase {
		if t.Role == agentmodels.RoleSystemNote {
			notes = append(notes, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: t.Text()})
			continue
		}
		if !pending[t.CorrelatesTo] || answered[t.CorrelatesTo] {
			continue
		}
		answered[t.CorrelatesTo] = true
		results = append(results, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    t.Content,
			ToolCallID: t.CorrelatesTo,
		})
	}

	var calls []openai.ToolCall
	for _, req := range request.ToolRequests {
		if !answered[req.ID] {
			continue
		}
		calls = append(calls, openai.ToolCall{
			ID:   req.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      req.Name,
				Arguments: string(req.Arguments),
			},
		})
	}

	out := make([]openai.ChatCompletionMessage, 0, 1+len(results)+len(notes))
	if len(calls) > 0 || request.Content != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   request.Content,
			ToolCalls: calls,
		})
	}
	out = append(out, results...)
	return append(out, notes...)
}

// renderTools converts the catalog descriptors to function tools.
func renderTools(defs []tools.Definition) []openai.Tool {
	out := make([]openai.Tool, len(defs))
	for i, d := range defs {
		out[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		}
	}
	return out
}
