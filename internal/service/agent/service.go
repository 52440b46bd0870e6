package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"staffdesk/internal/config"
	"staffdesk/internal/domain"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/services"
)

// Service implements services.AgentService on top of a loop and a session store.
type Service struct {
	loop     *Loop
	sessions *SessionStore
	logger   *slog.Logger
}

// NewService creates a new agent service.
func NewService(loop *Loop, sessions *SessionStore, logger *slog.Logger) services.AgentService {
	return &Service{
		loop:     loop,
		sessions: sessions,
		logger:   logger,
	}
}

// Chat runs one agent invocation. Invocations on the same session are serialized.
func (s *Service) Chat(ctx context.Context, req *services.ChatRequest) (*services.ChatResult, error) {
	message := strings.TrimSpace(req.Message)
	if err := validation.Validate(message,
		validation.Required.Error("nothing was said"),
		validation.RuneLength(0, config.MaxChatMessageLength),
	); err != nil {
		return nil, fmt.Errorf("%w: message: %v", domain.ErrValidation, err)
	}

	sess := s.sessions.Get(req.SessionID)
	if err := sess.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for session %s: %w", sess.ID, err)
	}
	defer sess.Release()

	res := s.loop.Run(ctx, sess.Memory, message)

	return &services.ChatResult{
		Success: res.State != StateErrored,
		Reply:   res.Reply,
		Mutated: res.Mutated,
		State:   string(res.State),
		Rounds:  res.Rounds,
	}, nil
}

// RecordEvent injects a free-text note. It does not wait for an in-flight invocation.
func (s *Service) RecordEvent(ctx context.Context, req *services.RecordEventRequest) error {
	description := strings.TrimSpace(req.Description)
	if err := validation.Validate(description,
		validation.Required,
		validation.RuneLength(0, config.MaxEventDescriptionLength),
	); err != nil {
		return fmt.Errorf("%w: description: %v", domain.ErrValidation, err)
	}

	s.sessions.Get(req.SessionID).Memory.InjectNote(agentmodels.Event{
		Kind:        agentmodels.EventExternal,
		Source:      strings.TrimSpace(req.Source),
		Description: description,
	})
	return nil
}

// Broadcast records a typed event in every live session.
func (s *Service) Broadcast(event agentmodels.Event) {
	count := 0
	s.sessions.Each(func(sess *Session) {
		sess.Memory.InjectNote(event)
		count++
	})
	s.logger.Debug("event recorded",
		"kind", event.Kind,
		"sessions", count,
	)
}

// ResetMemory clears the session's conversation once any in-flight
// invocation has finished. Unknown sessions are a no-op.
func (s *Service) ResetMemory(ctx context.Context, sessionID string) error {
	sess, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return nil
	}
	if err := sess.Acquire(ctx); err != nil {
		return fmt.Errorf("wait for session %s: %w", sess.ID, err)
	}
	defer sess.Release()

	sess.Memory.Clear()
	s.logger.Info("session memory cleared", "session_id", sess.ID)
	return nil
}

// History returns a copy of the session's turns.
func (s *Service) History(ctx context.Context, sessionID string) ([]agentmodels.Turn, error) {
	sess, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return []agentmodels.Turn{}, nil
	}
	return sess.Memory.Snapshot(), nil
}
