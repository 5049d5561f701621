package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

// Recorder wraps an Answerer and stores every successful exchange.
// Storage failures are logged and never reach the caller.
type Recorder struct {
	next  core.Answerer
	repo  core.ExchangeRepository
	model string
	now   func() time.Time
}

func NewRecorder(next core.Answerer, repo core.ExchangeRepository, model string) *Recorder {
	return &Recorder{
		next:  next,
		repo:  repo,
		model: model,
		now:   time.Now,
	}
}

func (r *Recorder) Respond(ctx context.Context, history []core.HistoryEntry, question string) (core.Reply, error) {
	start := r.now()

	reply, err := r.next.Respond(ctx, history, question)
	if err != nil {
		return reply, err
	}

	ex := core.Exchange{
		ID:         uuid.NewString(),
		Question:   question,
		Answer:     reply.Answer,
		HistoryLen: len(history),
		Documents:  len(reply.Documents),
		Model:      r.model,
		Duration:   r.now().Sub(start),
		CreatedAt:  start.UTC(),
	}

	// Detached so a client hanging up does not lose the record.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := r.repo.Save(saveCtx, ex); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("exchange_id", ex.ID).Msg("failed to save exchange")
	}

	return reply, nil
}

// Recent exposes the stored exchanges, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]core.Exchange, error) {
	return r.repo.Recent(ctx, limit)
}
