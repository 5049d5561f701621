package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/techassist/pkg/log"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

var defaultModels = map[string]string{
	ProviderGroq:       "llama-3.1-70b-versatile",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "meta-llama/llama-3.1-70b-instruct",
	ProviderAnthropic:  "claude-3-5-haiku-latest",
	ProviderOllama:     "llama3.1",
}

type LLMConfig struct {
	Provider    string        `env:"LLM_PROVIDER" envDefault:"groq"`
	Model       string        `env:"LLM_MODEL"`
	Temperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	// AnthropicMaxTokens is required by the messages API on every request.
	AnthropicMaxTokens int `env:"ANTHROPIC_MAX_TOKENS" envDefault:"4096"`

	GroqAPIKey       string `env:"GROQ_API_KEY" secret:"true"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY" secret:"true"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY" secret:"true"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY" secret:"true"`

	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomBaseURL string `env:"CUSTOM_BASE_URL"`
	CustomAPIKey  string `env:"CUSTOM_API_KEY" secret:"true"`
}

func LoadLLMConfig() (*LLMConfig, error) {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	return c, c.Validate()
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c, err := LoadLLMConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

// Validate checks that the selected provider has what it needs to be called.
func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic:
		if c.APIKey() == "" {
			return fmt.Errorf("provider %s requires an API key", c.Provider)
		}
		if c.Provider == ProviderAnthropic && c.AnthropicMaxTokens <= 0 {
			return fmt.Errorf("ANTHROPIC_MAX_TOKENS must be positive, got %d", c.AnthropicMaxTokens)
		}
	case ProviderOllama:
	case ProviderCustom:
		if c.CustomBaseURL == "" {
			return fmt.Errorf("provider custom requires CUSTOM_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("provider %s requires LLM_MODEL", c.Provider)
	}
	return nil
}

// APIKey returns the credential for the selected provider.
func (c *LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderGroq:
		return c.GroqAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderCustom:
		return c.CustomAPIKey
	}
	return ""
}
