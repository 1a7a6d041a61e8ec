package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/codetrain/internal/store"
)

// vendors builds the undecorated adapter for each provider name.
var vendors = map[string]func(context.Context, Config) (Provider, error){
	"anthropic":  func(_ context.Context, c Config) (Provider, error) { return NewAnthropicProvider(c.Anthropic) },
	"openai":     func(_ context.Context, c Config) (Provider, error) { return NewOpenAIProvider(c.OpenAI) },
	"openrouter": func(_ context.Context, c Config) (Provider, error) { return NewOpenRouterProvider(c.OpenRouter) },
	"gemini":     func(ctx context.Context, c Config) (Provider, error) { return NewGeminiProvider(ctx, c.Gemini) },
}

// NewProvider builds the configured vendor adapter and decorates it. From
// the caller inwards a call passes timeout, metrics, retry and logging, so
// every attempt is logged while metrics and the deadline cover the whole
// call. The mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	build, ok := vendors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	base, err := build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, eventRepo)
	p = WithRetry(p, cfg.Retry)
	p = WithMetrics(p)
	return WithTimeout(p, cfg.Timeout), nil
}

// NewProviderFromEnv reads CODETRAIN_* variables. Without an explicit
// CODETRAIN_LLM_PROVIDER the vendors' own key variables are tried first.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if os.Getenv("CODETRAIN_LLM_PROVIDER") == "" {
		if found, ok := DiscoverConfig(); ok {
			found.Timeout = cfg.Timeout
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo)
}
