// Package llm adapts third-party chat-completion APIs to a single text-in/text-out contract.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-tourist-routes/config"
)

var (
	ErrEmptyCompletion   = errors.New("llm returned no completion text")
	ErrMalformedResponse = errors.New("llm response body could not be decoded")
)

// Completer sends one prompt and returns the raw completion text.
// domainFilter restricts search grounding to the given source domains where the backend supports it.
// Implementations make exactly one upstream call and never retry.
type Completer interface {
	Complete(ctx context.Context, prompt string, domainFilter []string) (string, error)
	Name() string
}

const (
	ProviderOpenRouter = "openrouter"
	ProviderPerplexity = "perplexity"
	ProviderGemini     = "gemini"
)

const (
	openRouterURL      = "https://openrouter.ai/api/v1/chat/completions"
	perplexityURL      = "https://api.perplexity.ai/chat/completions"
	perplexityModel    = "sonar"
	perplexitySystem   = "You are tourism assistant."
	defaultGeminiModel = "gemini-2.0-flash"
)

// NewCompleter builds the backend selected by cfg.Provider.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (Completer, error) {
	switch cfg.Provider {
	case ProviderGemini:
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		return NewGeminiClient(ctx, cfg.APIKey, model, float32(cfg.Temperature), cfg.Timeout, logger)
	case ProviderPerplexity:
		cc := chatConfigFrom(cfg, perplexityURL, perplexityModel)
		if cc.SystemPrompt == "" {
			cc.SystemPrompt = perplexitySystem
		}
		return NewChatCompletionClient(cc, logger), nil
	case ProviderOpenRouter, "":
		return NewChatCompletionClient(chatConfigFrom(cfg, openRouterURL, "deepseek/deepseek-chat"), logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func chatConfigFrom(cfg config.LLMConfig, defaultURL, defaultModel string) ChatCompletionConfig {
	providerName := cfg.Provider
	if providerName == "" {
		providerName = ProviderOpenRouter
	}
	cc := ChatCompletionConfig{
		Name:         providerName,
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		Timeout:      cfg.Timeout,
		SystemPrompt: cfg.SystemPrompt,
		Referer:      cfg.Referer,
		Title:        cfg.Title,
	}
	if cc.BaseURL == "" {
		cc.BaseURL = defaultURL
	}
	if cc.Model == "" {
		cc.Model = defaultModel
	}
	return cc
}
