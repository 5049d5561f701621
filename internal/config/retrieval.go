package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/techassist/pkg/log"
)

const (
	EmbeddingTEI    = "tei"
	EmbeddingOpenAI = "openai"
)

type RetrievalConfig struct {
	ChromaURL        string `env:"CHROMA_URL" envDefault:"http://localhost:8000"`
	ChromaTenant     string `env:"CHROMA_TENANT" envDefault:"default_tenant"`
	ChromaDatabase   string `env:"CHROMA_DATABASE" envDefault:"default_database"`
	ChromaCollection string `env:"CHROMA_COLLECTION" envDefault:"langchain"`
	ChromaToken      string `env:"CHROMA_TOKEN" secret:"true"`

	EmbeddingProvider string `env:"EMBEDDING_PROVIDER" envDefault:"tei"`
	EmbeddingURL      string `env:"EMBEDDING_URL" envDefault:"http://localhost:8080"`
	EmbeddingModel    string `env:"EMBEDDING_MODEL" envDefault:"sentence-transformers/all-mpnet-base-v2"`
	EmbeddingAPIKey   string `env:"EMBEDDING_API_KEY" secret:"true"`

	Timeout time.Duration `env:"RETRIEVAL_TIMEOUT" envDefault:"30s"`
}

func LoadRetrievalConfig() (*RetrievalConfig, error) {
	c := &RetrievalConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	switch c.EmbeddingProvider {
	case EmbeddingTEI, EmbeddingOpenAI:
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", c.EmbeddingProvider)
	}
	return c, nil
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c, err := LoadRetrievalConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Retrieval config")
	}
	return c
}
