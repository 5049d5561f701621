package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/internal/service/ui"
	"github.com/sandevgo/techassist/pkg/log"
)

const prompt = "técnico> "

// REPL is an interactive chat for trying the assistant from a terminal.
// It plays the role of the messaging integration: it owns the
// conversation history and sends it with every question.
type REPL struct {
	answerer    core.Answerer
	historyFile string
	out         io.Writer

	mu      sync.Mutex
	history []core.HistoryEntry
	line    *liner.State
}

func NewREPL(answerer core.Answerer, historyFile string, out io.Writer) *REPL {
	if out == nil {
		out = os.Stdout
	}
	return &REPL{
		answerer:    answerer,
		historyFile: historyFile,
		out:         out,
	}
}

// Ask sends one question with the accumulated history and records the
// turn when it succeeds.
func (r *REPL) Ask(ctx context.Context, question string) (string, error) {
	r.mu.Lock()
	history := append([]core.HistoryEntry(nil), r.history...)
	r.mu.Unlock()

	reply, err := r.answerer.Respond(ctx, history, question)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.history = append(r.history,
		core.HistoryEntry{FromMe: true, Body: question},
		core.HistoryEntry{FromMe: false, Body: reply.Answer},
	)
	r.mu.Unlock()

	return reply.Answer, nil
}

func (r *REPL) Reset() {
	r.mu.Lock()
	r.history = nil
	r.mu.Unlock()
}

func (r *REPL) History() []core.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.HistoryEntry(nil), r.history...)
}

func (r *REPL) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	r.line = liner.NewLiner()
	r.line.SetCtrlCAborts(true)
	r.loadHistory()

	fmt.Fprintln(r.out, ui.DescStyle.Render("Type a question. /reset clears the conversation, exit quits."))

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		input, err := r.line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "exit", "/quit":
			return nil
		case "/reset":
			r.Reset()
			fmt.Fprintln(r.out, ui.DescStyle.Render("Conversation cleared."))
			continue
		}
		r.line.AppendHistory(input)

		answer, err := r.Ask(ctx, input)
		if err != nil {
			logger.Error().Err(err).Msg("answer failed")
			fmt.Fprintf(r.out, "%s %v\n", ui.ErrorStyle.Render("[Error]"), err)
			continue
		}
		fmt.Fprintln(r.out, ui.AnswerStyle.Render(answer))
	}
}

func (r *REPL) Shutdown(ctx context.Context) error {
	if r.line == nil {
		return nil
	}
	r.saveHistory()
	return r.line.Close()
}

func (r *REPL) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = r.line.WriteHistory(f)
}
