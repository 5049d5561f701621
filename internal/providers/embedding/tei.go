package embedding

import (
	"context"
	"fmt"
	"time"
)

// TEI calls a HuggingFace text-embeddings-inference server. The model is
// fixed by the server, so none is sent.
type TEI struct {
	httpClient
}

func NewTEI(baseURL, apiKey string, timeout time.Duration) *TEI {
	return &TEI{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (t *TEI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vectors [][]float32
	payload := map[string]any{"inputs": text, "normalize": true}
	if err := t.postJSON(ctx, "/embed", payload, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("tei returned no embedding")
	}
	return vectors[0], nil
}
