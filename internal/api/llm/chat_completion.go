package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-routes/internal/api/upstream"
)

var _ Completer = (*ChatCompletionClient)(nil)

const defaultCompletionTimeout = 30 * time.Second

// ChatCompletionConfig configures an OpenAI-compatible endpoint (OpenRouter, Perplexity).
type ChatCompletionConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	SystemPrompt string
	Referer      string
	Title        string
}

// ChatCompletionClient posts a single user message to a chat-completion endpoint.
type ChatCompletionClient struct {
	http   *http.Client
	cfg    ChatCompletionConfig
	logger *slog.Logger
}

func NewChatCompletionClient(cfg ChatCompletionConfig, logger *slog.Logger) *ChatCompletionClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCompletionTimeout
	}
	return &ChatCompletionClient{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

func (c *ChatCompletionClient) Name() string { return c.cfg.Name + ":" + c.cfg.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model              string        `json:"model"`
	Messages           []chatMessage `json:"messages"`
	Temperature        float64       `json:"temperature"`
	MaxTokens          int           `json:"max_tokens,omitempty"`
	SearchDomainFilter []string      `json:"search_domain_filter,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletionClient) Complete(ctx context.Context, prompt string, domainFilter []string) (string, error) {
	ctx, span := otel.Tracer("LLMClient").Start(ctx, "ChatCompletion", trace.WithAttributes(
		attribute.String("llm.provider", c.cfg.Name),
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.prompt_length", len(prompt)),
		attribute.StringSlice("llm.domain_filter", domainFilter),
	))
	defer span.End()

	messages := make([]chatMessage, 0, 2)
	if c.cfg.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.cfg.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:              c.cfg.Model,
		Messages:           messages,
		Temperature:        c.cfg.Temperature,
		MaxTokens:          c.cfg.MaxTokens,
		SearchDomainFilter: domainFilter,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal request")
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := upstream.ClassifyTransportError(c.cfg.Name, err)
		c.logger.ErrorContext(ctx, "Completion request failed", slog.String("provider", c.cfg.Name), slog.Any("error", classified))
		span.RecordError(classified)
		span.SetStatus(codes.Error, "transport failure")
		return "", classified
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := upstream.NewStatusError(c.cfg.Name, resp.StatusCode, raw)
		c.logger.ErrorContext(ctx, "Completion endpoint returned error status",
			slog.String("provider", c.cfg.Name),
			slog.Int("status", resp.StatusCode))
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, "upstream status")
		return "", statusErr
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode response")
		return "", fmt.Errorf("%s: %w: %v", c.cfg.Name, ErrMalformedResponse, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		span.SetStatus(codes.Error, "empty completion")
		return "", fmt.Errorf("%s: %w", c.cfg.Name, ErrEmptyCompletion)
	}

	content := out.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "Completion received",
		slog.String("provider", c.cfg.Name),
		slog.Int("response_length", len(content)),
		slog.Duration("latency", time.Since(start)))
	span.SetAttributes(attribute.Int("llm.response_length", len(content)))
	span.SetStatus(codes.Ok, "completion received")
	return content, nil
}
