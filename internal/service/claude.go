package service

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

const (
	DefaultClaudeModel       = "claude-sonnet-4-5-20250929"
	DefaultGenerationTimeout = 60 * time.Second
	claudeMaxTokens          = 2000
)

// Completer is the text-generation capability the pipeline depends on
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ClaudeClient wraps the Anthropic Messages API
type ClaudeClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  anthropic.Client
}

// NewClaudeClient builds a client. An empty apiKey is allowed; calls then
// fail with a missing-credential error instead of reaching the network.
func NewClaudeClient(apiKey, baseURL, model string, timeout time.Duration) *ClaudeClient {
	if model == "" {
		model = DefaultClaudeModel
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		// Retries are owned by the callers' policy
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ClaudeClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client:  anthropic.NewClient(opts...),
	}
}

// Model returns the configured model identifier
func (c *ClaudeClient) Model() string {
	return c.model
}

// Complete sends one system+user exchange and returns the concatenated text blocks
func (c *ClaudeClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Kind: KindMissingCredential, Message: "Claude API key not configured (set CLAUDE_API_KEY)"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyClaudeError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", newError(KindService, nil, "empty response from Claude")
	}

	log.Debug().
		Str("model", c.model).
		Int64("inputTokens", msg.Usage.InputTokens).
		Int64("outputTokens", msg.Usage.OutputTokens).
		Dur("latency", time.Since(start)).
		Msg("Claude completion received")

	return text, nil
}

// classifyClaudeError separates retryable failures (timeouts, 5xx) from the rest
func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return newError(KindTransient, err, "Claude API returned %d", apiErr.StatusCode)
		}
		return newError(KindService, err, "Claude API returned %d", apiErr.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTransient, err, "Claude API timed out")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTransient, err, "Claude API timed out")
	}

	return newError(KindService, err, "calling Claude API")
}

// stripCodeFences removes markdown ```json ... ``` wrappers
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
