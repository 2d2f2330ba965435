// Package chat provides a client for the OpenAI chat-completions API,
// used to generate tutor replies from compiled conversation payloads.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stemlab/stemmy/internal/httpc"
	"github.com/stemlab/stemmy/pkg/prompt"
)

// DefaultBaseURL is the standard OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// maxResponseBody bounds how much of an upstream response is read.
const maxResponseBody = 4 << 20 // 4 MB

// Config holds client configuration.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the default API endpoint (proxies, self-hosted).
	BaseURL string

	// Organization is an optional organization id header.
	Organization string

	// Project is an optional project id header.
	Project string

	// Timeout bounds each completion call.
	Timeout time.Duration

	// HTTPClient overrides the shared client (tests).
	HTTPClient *http.Client

	// Logger for request diagnostics.
	Logger *slog.Logger
}

// Client calls the chat-completions endpoint. It is safe for concurrent
// use.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a new chat client. A missing API key is a
// construction-time error so callers can decide availability at startup.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	hc := cfg.HTTPClient
	if hc == nil {
		if cfg.Timeout > 0 {
			hc = httpc.NewClient(cfg.Timeout)
		} else {
			hc = httpc.Client
		}
	}

	return &Client{
		config: cfg,
		http:   hc,
		logger: cfg.Logger.With("component", "chat"),
	}, nil
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request is one completion call.
type Request struct {
	Model       string
	Temperature float64
	Messages    []prompt.Message
}

// Wire types for the completions endpoint.

type completionRequest struct {
	Model       string           `json:"model"`
	Temperature float64          `json:"temperature"`
	Messages    []prompt.Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message prompt.Message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends the messages to the chat-completions endpoint and returns
// the text of the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages:    req.Messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if c.config.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.config.Organization)
	}
	if c.config.Project != "" {
		httpReq.Header.Set("OpenAI-Project", c.config.Project)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("chat: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			e := NewAPIError(resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
			e.Type = apiErr.Error.Type
			return "", e
		}
		return "", NewAPIError(resp.StatusCode, "", strings.TrimSpace(string(data)))
	}

	var out completionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("chat: parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("completion finished",
		"model", req.Model,
		"messages", len(req.Messages),
		"elapsed", time.Since(start),
	)

	return out.Choices[0].Message.Content, nil
}
