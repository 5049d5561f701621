package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/service/assistant"
	"github.com/sandevgo/techassist/pkg/env"
	"github.com/sandevgo/techassist/pkg/log"
	"github.com/spf13/cobra"
)

var (
	initProvider string
	initAPIKey   string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the runtime directory with a starter .env and prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx, os.Stderr)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		envPath, err := writeStarterFiles(runtimePath, initProvider, initAPIKey, initForce)
		if err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Msg("wrote configuration")
		logger.Info().Msgf("edit %s to customize the system prompt, then run 'techassist serve'",
			filepath.Join(runtimePath, "prompt.md"))
		return nil
	},
}

// writeStarterFiles writes .env and prompt.md into runtimePath. An existing
// .env is kept unless force is set.
func writeStarterFiles(runtimePath, provider, apiKey string, force bool) (string, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envPath); err == nil && !force {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	llmCfg := &config.LLMConfig{Provider: provider}
	switch provider {
	case config.ProviderGroq:
		llmCfg.GroqAPIKey = apiKey
	case config.ProviderOpenAI:
		llmCfg.OpenAIAPIKey = apiKey
	case config.ProviderOpenRouter:
		llmCfg.OpenRouterAPIKey = apiKey
	case config.ProviderAnthropic:
		llmCfg.AnthropicAPIKey = apiKey
	case config.ProviderCustom:
		llmCfg.CustomAPIKey = apiKey
	case config.ProviderOllama:
	default:
		return "", fmt.Errorf("unknown LLM provider: %q", provider)
	}

	app := &config.AppConfig{SystemPromptFile: "prompt.md"}

	var content string
	for _, c := range []any{app, llmCfg} {
		part, err := env.MarshalEnv(c, true)
		if err != nil {
			return "", err
		}
		content += part
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", err
	}

	promptPath := filepath.Join(runtimePath, "prompt.md")
	if _, err := os.Stat(promptPath); os.IsNotExist(err) {
		if err := os.WriteFile(promptPath, []byte(assistant.DefaultPrompt().Template()), 0644); err != nil {
			return "", err
		}
	}

	return envPath, nil
}

func init() {
	initCmd.Flags().StringVar(&initProvider, "provider", config.ProviderGroq, "LLM provider")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key for the provider")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing .env")
	rootCmd.AddCommand(initCmd)
}
