package cli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/techassist/internal/core"
)

type scriptedAnswerer struct {
	answers  []string
	err      error
	received [][]core.HistoryEntry
}

func (s *scriptedAnswerer) Respond(ctx context.Context, history []core.HistoryEntry, question string) (core.Reply, error) {
	s.received = append(s.received, history)
	if s.err != nil {
		return core.Reply{}, s.err
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return core.Reply{Answer: answer}, nil
}

func TestREPL_AccumulatesHistory(t *testing.T) {
	a := &scriptedAnswerer{answers: []string{"Verifique alimentação", "Meça a potência ótica"}}
	r := NewREPL(a, "", io.Discard)
	ctx := context.Background()

	got, err := r.Ask(ctx, "PDO não liga")
	require.NoError(t, err)
	assert.Equal(t, "Verifique alimentação", got)

	_, err = r.Ask(ctx, "Já verifiquei, continua sem luz")
	require.NoError(t, err)

	require.Len(t, a.received, 2)
	assert.Empty(t, a.received[0])
	assert.Equal(t, []core.HistoryEntry{
		{FromMe: true, Body: "PDO não liga"},
		{FromMe: false, Body: "Verifique alimentação"},
	}, a.received[1])
	assert.Len(t, r.History(), 4)
}

func TestREPL_FailedTurnNotRecorded(t *testing.T) {
	a := &scriptedAnswerer{err: errors.New("groq down")}
	r := NewREPL(a, "", io.Discard)

	_, err := r.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Empty(t, r.History())
}

func TestREPL_Reset(t *testing.T) {
	a := &scriptedAnswerer{answers: []string{"a"}}
	r := NewREPL(a, "", io.Discard)

	_, err := r.Ask(context.Background(), "q")
	require.NoError(t, err)
	r.Reset()
	assert.Empty(t, r.History())
}

func TestREPL_ShutdownBeforeStart(t *testing.T) {
	r := NewREPL(&scriptedAnswerer{}, "", nil)
	assert.NoError(t, r.Shutdown(context.Background()))
}
