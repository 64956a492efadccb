package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-tourist-routes/internal/api/upstream"
)

var _ Completer = (*GeminiClient)(nil)

// GeminiClient completes prompts with the Gemini API. Domain filters are not supported and are ignored.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32, timeout time.Duration, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Complete(ctx context.Context, prompt string, domainFilter []string) (string, error) {
	ctx, span := otel.Tracer("LLMClient").Start(ctx, "GeminiGenerateContent", trace.WithAttributes(
		attribute.String("llm.provider", ProviderGemini),
		attribute.String("llm.model", g.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	))
	defer span.End()

	if len(domainFilter) > 0 {
		g.logger.DebugContext(ctx, "Gemini backend ignores domain filter", slog.Any("domains", domainFilter))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](g.temperature),
	})
	if err != nil {
		classified := classifyGeminiError(err)
		g.logger.ErrorContext(ctx, "Gemini request failed", slog.Any("error", classified))
		span.RecordError(classified)
		span.SetStatus(codes.Error, "gemini request failed")
		return "", classified
	}

	text := result.Text()
	if text == "" {
		span.SetStatus(codes.Error, "empty completion")
		return "", fmt.Errorf("%s: %w", ProviderGemini, ErrEmptyCompletion)
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(text)))
	span.SetStatus(codes.Ok, "completion received")
	return text, nil
}

func classifyGeminiError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return upstream.ClassifyTransportError(ProviderGemini, err)
	}
	return fmt.Errorf("%s: %w: %v", ProviderGemini, upstream.ErrStatus, err)
}
