package handler

import (
	"log/slog"
	"net/http"

	"staffdesk/internal/capabilities"
	"staffdesk/internal/config"
	"staffdesk/internal/httputil"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ActiveModel is the model the agent is configured to use
type ActiveModel struct {
	Provider string                          `json:"provider"`
	Model    string                          `json:"model"`
	Known    bool                            `json:"known"`
	Details  *capabilities.ModelCapabilities `json:"details,omitempty"`
}

// CapabilitiesResponse lists every known provider and the active model
type CapabilitiesResponse struct {
	Active    ActiveModel                         `json:"active"`
	Providers []capabilities.ProviderCapabilities `json:"providers"`
}

// GetCapabilities returns the capability registry
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	active := ActiveModel{Provider: h.config.AIProvider, Model: h.config.AIModel}
	if caps, err := h.registry.GetModelCapabilities(h.config.AIProvider, h.config.AIModel); err == nil {
		active.Known = true
		active.Details = caps
	}

	httputil.RespondJSON(w, http.StatusOK, CapabilitiesResponse{
		Active:    active,
		Providers: h.registry.Providers(),
	})
}
