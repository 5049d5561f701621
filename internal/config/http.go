package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/techassist/pkg/log"
)

type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8090"`

	// Requests per second allowed across all clients, 0 disables limiting.
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"HTTP_RATE_BURST" envDefault:"10"`

	// Bearer token required on /v1 routes when set.
	APIToken string `env:"HTTP_API_TOKEN" secret:"true"`
}

func LoadHTTPConfig() (*HTTPConfig, error) {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c, err := LoadHTTPConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
