package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, messages []Message) (Message, error)
}

type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Document, error)
}

type Answerer interface {
	Respond(ctx context.Context, history []HistoryEntry, question string) (Reply, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
