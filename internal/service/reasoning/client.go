// Package reasoning is the client for the external reasoning service, an
// OpenAI-compatible chat-completions endpoint. It is a protocol adapter only:
// it never interprets tool semantics.
package reasoning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/service/agent/tools"
)

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds a single request; zero means no limit
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs one chat-completion request per reasoning round.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
	newID   func() string
}

// NewClient creates a new client.
func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client:  openai.NewClientWithConfig(config),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// Next sends the conversation and catalog and returns either a final-answer
// turn or a tool-request turn. Failures are *Error values of kind
// ErrTransport, ErrStatus or ErrMalformedResponse.
func (c *Client) Next(ctx context.Context, turns []agentmodels.Turn, catalog []tools.Definition) (agentmodels.Turn, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: renderMessages(turns),
	}
	if len(catalog) > 0 {
		req.Tools = renderTools(catalog)
		req.ToolChoice = "auto"
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		rerr := classify(err)
		c.logger.Error("reasoning request failed",
			"model", c.model,
			"kind", kindName(rerr),
			"status", rerr.StatusCode,
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return agentmodels.Turn{}, rerr
	}

	turn, err := c.parse(resp)
	if err != nil {
		c.logger.Error("reasoning response rejected",
			"model", c.model,
			"kind", kindName(err),
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return agentmodels.Turn{}, err
	}

	c.logger.Debug("reasoning round trip",
		"model", c.model,
		"messages", len(req.Messages),
		"tool_requests", len(turn.ToolRequests),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"latency_ms", latency.Milliseconds(),
	)
	return turn, nil
}

func (c *Client) parse(resp openai.ChatCompletionResponse) (agentmodels.Turn, error) {
	if len(resp.Choices) == 0 {
		return agentmodels.Turn{}, malformed("response has no choices")
	}
	msg := resp.Choices[0].Message

	if len(msg.ToolCalls) > 0 {
		reqs := make([]agentmodels.ToolRequest, 0, len(msg.ToolCalls))
		seen := make(map[string]bool, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			if tc.Function.Name == "" {
				return agentmodels.Turn{}, malformed("tool call %q has no function name", tc.ID)
			}
			id := tc.ID
			if id == "" || seen[id] {
				id = c.newID()
			}
			seen[id] = true
			reqs = append(reqs, agentmodels.ToolRequest{
				ID:        id,
				Name:      tc.Function.Name,
				Arguments: normalizeArguments(tc.Function.Arguments),
			})
		}
		return agentmodels.NewToolRequestTurn(msg.Content, reqs), nil
	}

	if strings.TrimSpace(msg.Content) == "" {
		return agentmodels.Turn{}, malformed("response has neither content nor tool calls")
	}
	return agentmodels.NewAssistantTurn(msg.Content), nil
}

// normalizeArguments keeps arguments valid JSON so the turn log stays
// serializable. Invalid payloads are kept as a JSON string, which the tool
// argument decoder then rejects.
func normalizeArguments(args string) json.RawMessage {
	if strings.TrimSpace(args) == "" {
		return json.RawMessage("{}")
	}
	if json.Valid([]byte(args)) {
		return json.RawMessage(args)
	}
	quoted, err := json.Marshal(args)
	if err != nil {
		return json.RawMessage("{}")
	}
	return quoted
}
