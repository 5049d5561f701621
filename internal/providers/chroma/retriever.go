package chroma

import (
	"context"
	"fmt"

	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

type querier interface {
	Query(ctx context.Context, embedding []float32, nResults int, where map[string]any) (*QueryResponse, error)
}

// Retriever embeds the query and returns the nearest chunks in rank order.
type Retriever struct {
	store    querier
	embedder core.Embedder
}

func NewRetriever(store querier, embedder core.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]core.Document, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	resp, err := r.store.Query(ctx, vec, k, nil)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	docs := toDocuments(resp)
	log.FromCtx(ctx).Debug().Int("k", k).Int("found", len(docs)).Msg("retrieved documents")
	return docs, nil
}

func toDocuments(resp *QueryResponse) []core.Document {
	if resp == nil || len(resp.IDs) == 0 {
		return nil
	}

	ids := resp.IDs[0]
	docs := make([]core.Document, 0, len(ids))
	for i, id := range ids {
		d := core.Document{ID: id}
		if row := first(resp.Documents); i < len(row) && row[i] != nil {
			d.Content = *row[i]
		}
		if row := first(resp.Metadatas); i < len(row) {
			d.Metadata = row[i]
		}
		if row := first(resp.Distances); i < len(row) {
			d.Distance = row[i]
		}
		docs = append(docs, d)
	}
	return docs
}

func first[T any](rows [][]T) []T {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}
