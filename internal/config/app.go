package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/techassist/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"TECHASSIST_RUNTIME_PATH" envDefault:".techassist"`

	// Retrieval breadth passed to the vector store on every question.
	TopK int `env:"RETRIEVER_TOP_K" envDefault:"30"`

	// Optional replacement for the built-in system prompt template.
	SystemPromptFile string `env:"SYSTEM_PROMPT_FILE"`

	// Token budget for retrieved context, 0 means unlimited.
	MaxContextTokens int `env:"MAX_CONTEXT_TOKENS" envDefault:"0"`

	EnableJournal bool `env:"ENABLE_JOURNAL" envDefault:"false"`
}

func LoadAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.TopK <= 0 {
		return nil, fmt.Errorf("RETRIEVER_TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxContextTokens < 0 {
		return nil, fmt.Errorf("MAX_CONTEXT_TOKENS must not be negative, got %d", c.MaxContextTokens)
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := LoadAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetSystemPromptPath() string {
	if c.SystemPromptFile == "" || filepath.IsAbs(c.SystemPromptFile) {
		return c.SystemPromptFile
	}
	return filepath.Join(c.RuntimePath, c.SystemPromptFile)
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "journal.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "chat_history")
}
