package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

const DefaultTopK = 30

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrEmptyAnswer   = errors.New("model returned an empty answer")
)

// Assistant answers support questions grounded on retrieved documents.
// It keeps no per-conversation state; the caller owns the history.
type Assistant struct {
	ai        core.AIProvider
	retriever core.Retriever
	prompt    *Prompt

	topK             int
	maxContextTokens int
	tokens           TokenCounter
}

type Option func(*Assistant)

func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithMaxContextTokens limits how many tokens of retrieved text go into the
// system prompt. Zero means no limit.
func WithMaxContextTokens(n int) Option {
	return func(a *Assistant) {
		a.maxContextTokens = n
	}
}

func WithTokenCounter(c TokenCounter) Option {
	return func(a *Assistant) {
		a.tokens = c
	}
}

func New(ai core.AIProvider, retriever core.Retriever, prompt *Prompt, opts ...Option) *Assistant {
	if prompt == nil {
		prompt = DefaultPrompt()
	}
	a := &Assistant{
		ai:        ai,
		retriever: retriever,
		prompt:    prompt,
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tokens == nil {
		a.tokens = NewTokenCounter()
	}
	return a
}

// Answer returns only the reply text.
func (a *Assistant) Answer(ctx context.Context, history []core.HistoryEntry, question string) (string, error) {
	reply, err := a.Respond(ctx, history, question)
	if err != nil {
		return "", err
	}
	return reply.Answer, nil
}

// Respond retrieves documents for question, then asks the model once with
// the system prompt, the history and the question, in that order.
func (a *Assistant) Respond(ctx context.Context, history []core.HistoryEntry, question string) (core.Reply, error) {
	if strings.TrimSpace(question) == "" {
		return core.Reply{}, ErrEmptyQuestion
	}

	logger := log.FromCtx(ctx)

	docs, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		return core.Reply{}, fmt.Errorf("retrieve: %w", err)
	}

	docs = a.fitContext(ctx, docs)

	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: a.prompt.Render(docs)})
	messages = append(messages, BuildMessages(history, question)...)

	if e := logger.Debug(); e.Enabled() {
		total := 0
		for _, m := range messages {
			total += a.tokens.Count(m.Content)
		}
		e.Int("documents", len(docs)).
			Int("history", len(history)).
			Int("prompt_tokens", total).
			Msg("sending prompt")
	}

	resp, err := a.ai.Chat(ctx, messages)
	if err != nil {
		return core.Reply{}, fmt.Errorf("chat: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return core.Reply{}, ErrEmptyAnswer
	}

	return core.Reply{Answer: resp.Content, Documents: docs}, nil
}

// BuildMessages maps history entries to chat messages and appends the
// question. Operator messages become user turns, everything else the
// assistant's.
func BuildMessages(history []core.HistoryEntry, question string) []core.Message {
	messages := make([]core.Message, 0, len(history)+1)
	for _, h := range history {
		role := core.RoleAssistant
		if h.FromMe {
			role = core.RoleUser
		}
		messages = append(messages, core.Message{Role: role, Content: h.Body})
	}
	return append(messages, core.Message{Role: core.RoleUser, Content: question})
}

// fitContext keeps the longest rank-ordered prefix of docs that fits the
// token budget.
func (a *Assistant) fitContext(ctx context.Context, docs []core.Document) []core.Document {
	if a.maxContextTokens <= 0 {
		return docs
	}

	used := 0
	for i, d := range docs {
		used += a.tokens.Count(d.Content)
		if used > a.maxContextTokens {
			log.FromCtx(ctx).Debug().
				Int("kept", i).
				Int("dropped", len(docs)-i).
				Int("budget", a.maxContextTokens).
				Msg("context budget reached")
			return docs[:i]
		}
	}
	return docs
}
