package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/techassist/internal/core"
)

type Exchanges struct {
	db *sql.DB
}

func NewExchanges(db *sql.DB) *Exchanges {
	return &Exchanges{db: db}
}

func (e *Exchanges) Save(ctx context.Context, ex core.Exchange) error {
	query := `INSERT INTO exchanges (id, question, answer, history_len, documents, model, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := e.db.ExecContext(ctx, query,
		ex.ID, ex.Question, ex.Answer, ex.HistoryLen, ex.Documents, ex.Model,
		ex.Duration.Milliseconds(), ex.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (e *Exchanges) Recent(ctx context.Context, limit int) ([]core.Exchange, error) {
	query := `SELECT id, question, answer, history_len, documents, model, duration_ms, created_at
		FROM exchanges ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := e.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var out []core.Exchange
	for rows.Next() {
		var ex core.Exchange
		var durationMs, createdAt int64
		if err := rows.Scan(&ex.ID, &ex.Question, &ex.Answer, &ex.HistoryLen, &ex.Documents, &ex.Model, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		ex.Duration = time.Duration(durationMs) * time.Millisecond
		ex.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, ex)
	}
	return out, rows.Err()
}
