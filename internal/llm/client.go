// Package llm wraps the completion service used by the query pipeline.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

// Completer is the completion-service contract the pipeline depends on.
// Implementations return unstructured model text and may fail with a
// transport or service error.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ClientConfig holds settings for the OpenRouter-backed client.
type ClientConfig struct {
	// APIKey authenticates against the OpenAI-compatible endpoint.
	APIKey string
	// BaseURL of the completion API, e.g. "https://openrouter.ai/api/v1".
	BaseURL string
	// Model name as understood by the provider.
	Model string
	// RequestsPerMinute caps outgoing completion calls. Zero disables the cap.
	RequestsPerMinute int

	Logger *logrus.Logger
}

// Client calls an OpenAI-compatible chat completion API through langchaingo,
// rate limited so a burst of questions cannot exhaust the provider quota.
type Client struct {
	llm     llms.Model
	limiter *rate.Limiter
	logger  *logrus.Logger
	model   string
}

// NewClient builds a completion client from config.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-3.1-70b-instruct"
	}

	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"model":    cfg.Model,
	}).Info("initialized completion client")

	return &Client{
		llm:     model,
		limiter: limiter,
		logger:  cfg.Logger,
		model:   cfg.Model,
	}, nil
}

// Complete sends one system+user chat exchange and returns the raw model text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("completion rate limit wait: %w", err)
		}
	}

	msgs := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, userPrompt),
	}

	resp, err := c.llm.GenerateContent(ctx, msgs, llms.WithMaxTokens(1024))
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	out := resp.Choices[0].Content
	c.logger.WithFields(logrus.Fields{
		"model": c.model,
		"chars": len(out),
	}).Debug("completion returned")

	return strings.TrimSpace(out), nil
}
