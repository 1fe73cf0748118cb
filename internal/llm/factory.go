package llm

import (
	"context"
	"fmt"
	"os"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and, when log is non-nil,
// request-logging middleware.
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	if log != nil {
		base = WithLogging(base, cfg.Provider, log)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewProviderFromEnv builds a provider from SKILLORA_* variables. When no
// provider is selected explicitly and the default one lacks a key, the
// standard vendor API key variables are probed instead.
func NewProviderFromEnv(ctx context.Context, log RequestLog) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, log)
}

// ResolveConfig returns the validated configuration NewProviderFromEnv uses.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if os.Getenv("SKILLORA_LLM_PROVIDER") == "" {
		if discovered, ok := DiscoverConfig(); ok {
			return discovered, nil
		}
	}
	return Config{}, err
}
