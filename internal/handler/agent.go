package handler

import (
	"log/slog"
	"net/http"

	"staffdesk/internal/domain/services"
	"staffdesk/internal/httputil"
)

// AgentHandler handles conversational agent requests
type AgentHandler struct {
	agentService services.AgentService
	logger       *slog.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentService services.AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		logger:       logger,
	}
}

// Chat runs the agent on one user utterance
// POST /api/chat
// Always 200 once the agent ran; success=false carries the generic failure reply
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req services.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondParseError(w, err)
		return
	}
	req.SessionID = httputil.GetSessionID(r)

	result, err := h.agentService.Chat(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// RecordEvent injects a system note about something done outside the agent
// POST /api/chat/events
func (h *AgentHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req services.RecordEventRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondParseError(w, err)
		return
	}
	req.SessionID = httputil.GetSessionID(r)

	if err := h.agentService.RecordEvent(r.Context(), &req); err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// GetHistory returns the caller's conversation
// GET /api/chat/history
func (h *AgentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := h.agentService.History(r.Context(), httputil.GetSessionID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"turns": turns})
}

// ResetMemory clears the caller's conversation
// DELETE /api/chat/memory
func (h *AgentHandler) ResetMemory(w http.ResponseWriter, r *http.Request) {
	if err := h.agentService.ResetMemory(r.Context(), httputil.GetSessionID(r)); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
