package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/techassist/internal/core"
)

type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, model string, temperature *float64, timeout time.Duration) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     baseURL,
			Model:       model,
			Temperature: temperature,
			Timeout:     timeout,
		}),
	}
}

// Models lists locally pulled models via the native tags endpoint.
func (o *Ollama) Models(ctx context.Context) ([]core.Model, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.doJSON(ctx, http.MethodGet, "/api/tags", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("ollama not available: %w", err)
	}

	models := make([]core.Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, core.Model{ID: m.Name, Name: m.Name})
	}
	return models, nil
}
