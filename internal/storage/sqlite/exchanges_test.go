package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/techassist/internal/core"
)

func TestExchanges_SaveAndRecent(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewExchanges(db)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i, q := range []string{"PDO não liga", "Já verifiquei, continua sem luz", "ONU pisca a vermelho"} {
		require.NoError(t, repo.Save(ctx, core.Exchange{
			ID:         q,
			Question:   q,
			Answer:     "resposta",
			HistoryLen: i,
			Documents:  30,
			Model:      "llama-3.1-70b-versatile",
			Duration:   1500 * time.Millisecond,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ONU pisca a vermelho", got[0].Question)
	assert.Equal(t, "Já verifiquei, continua sem luz", got[1].Question)
	assert.Equal(t, 2, got[0].HistoryLen)
	assert.Equal(t, 1500*time.Millisecond, got[0].Duration)
	assert.Equal(t, base.Add(2*time.Minute), got[0].CreatedAt)
}

func TestExchanges_DuplicateID(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewExchanges(db)
	ex := core.Exchange{ID: "x", Question: "q", Answer: "a", CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, ex))
	assert.Error(t, repo.Save(ctx, ex))
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
