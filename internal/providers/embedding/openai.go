package embedding

import (
	"context"
	"fmt"
	"time"
)

// OpenAI calls an OpenAI-compatible /v1/embeddings endpoint.
type OpenAI struct {
	httpClient
	model string
}

func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		httpClient: newHTTPClient(baseURL, apiKey, timeout),
		model:      model,
	}
}

func (o *OpenAI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	payload := map[string]any{"model": o.model, "input": []string{text}}
	if err := o.postJSON(ctx, "/v1/embeddings", payload, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings response is empty")
	}
	return result.Data[0].Embedding, nil
}
