// Package llmprovider talks to any OpenAI-compatible /chat/completions
// endpoint (Ollama by default) on behalf of the assistant stages.
package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/janhq/health-assistant/internal/config"
	"github.com/janhq/health-assistant/internal/domain/llm"
)

// Options configures the completion client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// OptionsFromConfig maps the service config onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
	}
}

// Client implements llm.Completer with a single-message chat completion.
type Client struct {
	httpClient  *resty.Client
	model       string
	temperature float32
}

var (
	_ llm.Completer = (*Client)(nil)
	_ llm.Pinger    = (*Client)(nil)
)

// NewClient creates a Resty-backed client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if opts.APIKey != "" {
		httpClient.SetAuthToken(opts.APIKey)
	}
	return &Client{
		httpClient:  httpClient,
		model:       opts.Model,
		temperature: opts.Temperature,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first
// choice's content. Every failure wraps llm.ErrServiceUnavailable.
func (c *Client) Complete(ctx context.Context, prompt string, stop ...string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		Stop:        stop,
	}

	var completion openai.ChatCompletionResponse
	var apiErr openai.ErrorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: completion timed out: %v", llm.ErrServiceUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", llm.ErrServiceUnavailable, err)
	}

	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", fmt.Errorf("%w: status %d: %s", llm.ErrServiceUnavailable, resp.StatusCode(), msg)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", llm.ErrServiceUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}

// Ping issues a trivial completion to confirm the endpoint and model respond.
func (c *Client) Ping(ctx context.Context) error {
	out, err := c.Complete(ctx, "Say OK")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return fmt.Errorf("%w: empty probe reply", llm.ErrServiceUnavailable)
	}
	return nil
}
