package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/internal/providers/chroma"
	"github.com/sandevgo/techassist/internal/providers/embedding"
	"github.com/sandevgo/techassist/internal/providers/llm"
	"github.com/sandevgo/techassist/internal/service/assistant"
	"github.com/sandevgo/techassist/internal/service/journal"
	"github.com/sandevgo/techassist/internal/storage/sqlite"
	"github.com/sandevgo/techassist/pkg/log"
	"github.com/sandevgo/techassist/pkg/retry"
	"github.com/sandevgo/techassist/pkg/srv"
)

// App holds the wired components shared by the commands.
type App struct {
	AppCfg       *config.AppConfig
	LLMCfg       *config.LLMConfig
	RetrievalCfg *config.RetrievalConfig

	Provider llm.Provider
	Chroma   *chroma.Client
	Answerer core.Answerer
	Journal  *journal.Recorder

	// Cleanup services release resources on shutdown.
	Cleanup []srv.Service
}

func (a *App) Close() {
	for _, c := range a.Cleanup {
		_ = c.Shutdown(context.Background())
	}
}

func NewApp(ctx context.Context) (*App, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	a := &App{
		AppCfg:       config.NewAppConfig(ctx),
		LLMCfg:       config.NewLLMConfig(ctx),
		RetrievalCfg: config.NewRetrievalConfig(ctx),
	}

	// 2. AI Provider
	provider, err := llm.NewProvider(ctx, a.LLMCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	a.Provider = provider

	// 3. Retrieval
	embedder, err := embedding.NewEmbedder(a.RetrievalCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	a.Chroma = chroma.NewClient(chroma.Config{
		URL:        a.RetrievalCfg.ChromaURL,
		Tenant:     a.RetrievalCfg.ChromaTenant,
		Database:   a.RetrievalCfg.ChromaDatabase,
		Collection: a.RetrievalCfg.ChromaCollection,
		Token:      a.RetrievalCfg.ChromaToken,
		Timeout:    a.RetrievalCfg.Timeout,
	})
	retriever := chroma.NewRetriever(a.Chroma, embedder)

	// 4. Assistant
	prompt, err := assistant.NewPrompt(a.AppCfg)
	if err != nil {
		return nil, err
	}
	var answerer core.Answerer = assistant.New(provider, retriever, prompt,
		assistant.WithTopK(a.AppCfg.TopK),
		assistant.WithMaxContextTokens(a.AppCfg.MaxContextTokens),
	)

	// 5. Journal
	if a.AppCfg.EnableJournal {
		db, err := sqlite.NewDB(ctx, a.AppCfg.GetDatabasePath())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize journal storage: %w", err)
		}
		a.Cleanup = append(a.Cleanup, srv.NewCleanup(db.Close))

		a.Journal = journal.NewRecorder(answerer, sqlite.NewExchanges(db), provider.Model())
		answerer = a.Journal
		log.FromCtx(ctx).Info().Str("path", a.AppCfg.GetDatabasePath()).Msg("journal enabled")
	}
	a.Answerer = answerer

	return a, nil
}

// WaitForChroma blocks until the vector store answers its heartbeat or
// the retry budget runs out.
func (a *App) WaitForChroma(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	cfg := retry.NewDefaultConfig()
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("chroma not ready")
	}

	return retry.NewRetrier(cfg).Do(ctx, func(ctx context.Context) error {
		if err := a.Chroma.Ping(ctx); err != nil {
			return err
		}
		_, err := a.Chroma.CollectionID(ctx)
		return err
	})
}

// initEnv loads .env from the working directory, then from the runtime
// directory. Variables already set are never overridden.
func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)

	for _, envFile := range []string{".env", filepath.Join(runtimePath, ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
			return err
		}
		logger.Debug().Str("path", envFile).Msg("loaded .env file")
	}
	return nil
}
