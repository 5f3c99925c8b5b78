// Package llm implements the completion port on top of OpenAI-compatible
// chat completion endpoints. Both supported providers (Groq and Gemini)
// expose this surface, so one client covers either.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"

	"github.com/s-a-yu/auraPerfumeRec/internal/port/completion"
)

// Provider endpoints. Gemini serves an OpenAI-compatible surface alongside
// its native API.
const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// Config holds the completion client settings.
type Config struct {
	APIKey             string
	Model              string
	BaseURL            string
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// Client performs chat completion calls with optional structured output.
// All calls share one circuit breaker: a provider outage fails research
// tasks fast instead of stacking timeouts.
type Client struct {
	api     *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker[string]
}

// NewClient creates a completion client for one provider endpoint.
func NewClient(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "llm",
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
			},
		}),
	}
}

// Complete performs one chat completion call. When the request carries a
// schema, the provider is asked for JSON conforming to it and the raw JSON
// document is returned; otherwise the plain text content is returned.
func (c *Client) Complete(ctx context.Context, req completion.Request) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		chatReq := openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
				{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
			},
		}

		if req.Schema != nil {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: true,
				},
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("chat completion: no choices returned")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
