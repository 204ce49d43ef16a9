// Package completion issues single-shot chat completion requests against an
// OpenAI-compatible endpoint (Together AI by default).
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"aichannel/pkg/config"
)

// NoResponseText is returned when the API succeeds without a usable choice.
const NoResponseText = "⚠️ No response from AI."

// APIError is returned when the completion call fails.
type APIError struct {
	// StatusCode is the HTTP status when the endpoint answered, otherwise 0.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion api: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion api: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Client sends one user message plus the fixed persona per call. It keeps no
// conversation state between calls.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	persona   string
}

// NewClient creates a completion client from configuration.
func NewClient(cfg *config.Config) (*Client, error) {
	cc := cfg.Completion
	if strings.TrimSpace(cc.APIKey) == "" {
		return nil, errors.New("completion: api key is required")
	}

	apiCfg := openai.DefaultConfig(cc.APIKey)
	if cc.APIBase != "" {
		apiCfg.BaseURL = strings.TrimRight(cc.APIBase, "/")
	}
	// Zero timeout leaves the request bounded only by ctx.
	apiCfg.HTTPClient = &http.Client{Timeout: time.Duration(cc.TimeoutSeconds) * time.Second}

	persona := cc.Persona
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	maxTokens := cc.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	model := cc.Model
	if model == "" {
		model = config.DefaultModel
	}

	return &Client{
		api:       openai.NewClientWithConfig(apiCfg),
		model:     model,
		maxTokens: maxTokens,
		persona:   persona,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete returns the first generated reply for userText.
// Messages are sent user first, then the system persona.
func (c *Client) Complete(ctx context.Context, userText string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: userText},
			{Role: openai.ChatMessageRoleSystem, Content: c.persona},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", wrapError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoResponseText, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func wrapError(err error) error {
	apiErr := &APIError{Err: err}

	var oaErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &oaErr):
		apiErr.StatusCode = oaErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		apiErr.StatusCode = reqErr.HTTPStatusCode
	}
	return apiErr
}
