package agent

import (
	"errors"
	"fmt"
	"log/slog"

	"staffdesk/internal/capabilities"
	"staffdesk/internal/config"
	"staffdesk/internal/domain/repositories"
	"staffdesk/internal/domain/services"
	"staffdesk/internal/service/agent/tools"
	"staffdesk/internal/service/reasoning"
)

// Services holds the agent and the pieces callers need alongside it
type Services struct {
	Agent    services.AgentService
	Sessions *SessionStore
	Tools    *tools.ToolRegistry
}

// Setup wires the tool registry, reasoning client, loop and session store.
// Models known to lack tool calling are rejected; unknown models are allowed
// with a warning.
func Setup(
	cfg *config.Config,
	store repositories.DataStore,
	capabilityRegistry *capabilities.Registry,
	logger *slog.Logger,
) (*Services, error) {
	if _, err := capabilityRegistry.CheckToolSupport(cfg.AIProvider, cfg.AIModel); err != nil {
		if errors.Is(err, capabilities.ErrToolsUnsupported) {
			return nil, err
		}
		logger.Warn("model not in capability registry, assuming tool support",
			"provider", cfg.AIProvider,
			"model", cfg.AIModel,
			"error", err,
		)
	}

	toolRegistry := tools.BuildWithDefaults(store, logger)

	reasoner := reasoning.NewClient(reasoning.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
		Logger:  logger,
	})

	prompt, err := LoadPromptTemplate()
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	loop, err := NewLoop(LoopConfig{
		Reasoner:  reasoner,
		Tools:     toolRegistry,
		Schema:    store,
		Prompt:    prompt,
		MaxRounds: cfg.AgentMaxRounds,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	sessions := NewSessionStore(SessionConfig{
		Mode:         cfg.SessionMode,
		TTL:          cfg.SessionTTL,
		MaxTurns:     cfg.MemoryMaxTurns,
		NoteMaxTurns: cfg.MemoryNoteMaxTurns,
		Logger:       logger,
	})

	logger.Info("agent initialized",
		"provider", cfg.AIProvider,
		"model", cfg.AIModel,
		"tools", len(toolRegistry.Definitions()),
		"max_rounds", cfg.AgentMaxRounds,
	)

	return &Services{
		Agent:    NewService(loop, sessions, logger),
		Sessions: sessions,
		Tools:    toolRegistry,
	}, nil
}
