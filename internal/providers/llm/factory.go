package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

// Provider is what the commands need from a backend: completions and a
// model listing.
type Provider interface {
	core.AIProvider
	core.ModelLister
	Model() string
}

// NewProvider creates the appropriate Provider based on configuration.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	temp := cfg.Temperature
	switch cfg.Provider {
	case config.ProviderGroq:
		return NewGroq(cfg.APIKey(), cfg.Model, &temp, cfg.Timeout), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey(), cfg.Model, &temp, cfg.Timeout), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(cfg.APIKey(), cfg.Model, &temp, cfg.Timeout), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.APIKey(), cfg.Model, &temp, cfg.AnthropicMaxTokens, cfg.Timeout), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaBaseURL, cfg.Model, &temp, cfg.Timeout), nil
	case config.ProviderCustom:
		return NewCustomOpenAI(cfg.CustomBaseURL, cfg.APIKey(), cfg.Model, &temp, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
