package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/internal/providers/llm"
	"github.com/sandevgo/techassist/internal/service/assistant"
)

type stubAnswerer struct {
	reply    core.Reply
	err      error
	history  []core.HistoryEntry
	question string
}

func (s *stubAnswerer) Respond(ctx context.Context, history []core.HistoryEntry, question string) (core.Reply, error) {
	s.history = history
	s.question = question
	return s.reply, s.err
}

type stubHealth struct{ err error }

func (s stubHealth) Ping(ctx context.Context) error { return s.err }

type stubJournal struct {
	limit int
	items []core.Exchange
}

func (s *stubJournal) Recent(ctx context.Context, limit int) ([]core.Exchange, error) {
	s.limit = limit
	return s.items, nil
}

func newTestRouter(a core.Answerer, cfg *config.HTTPConfig, j ExchangeLister) http.Handler {
	if cfg == nil {
		cfg = &config.HTTPConfig{}
	}
	return NewRouter(cfg, a, stubHealth{}, j)
}

func postAnswer(t *testing.T, h http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/answer", strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnswer_OK(t *testing.T) {
	a := &stubAnswerer{reply: core.Reply{
		Answer:    "**Meça** a potência ótica.",
		Documents: []core.Document{{ID: "d1", Content: "manual"}},
	}}
	h := newTestRouter(a, nil, nil)

	body := `{"history":[{"fromMe":true,"body":"PDO não liga"},{"fromMe":false,"body":"Verifique alimentação"}],
		"question":"Já verifiquei, continua sem luz"}`
	rec := postAnswer(t, h, body, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "**Meça** a potência ótica.", resp.Answer)
	assert.Contains(t, resp.AnswerHTML, "<strong>Meça</strong>")
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "d1", resp.Sources[0].ID)

	assert.Equal(t, "Já verifiquei, continua sem luz", a.question)
	assert.Equal(t, []core.HistoryEntry{
		{FromMe: true, Body: "PDO não liga"},
		{FromMe: false, Body: "Verifique alimentação"},
	}, a.history)
}

func TestAnswer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
		{name: "empty question", body: `{"question":""}`, err: assistant.ErrEmptyQuestion, want: http.StatusBadRequest},
		{
			name: "upstream rate limit",
			body: `{"question":"q"}`,
			err:  fmt.Errorf("chat: %w", &llm.StatusError{StatusCode: 429, Body: "slow down"}),
			want: http.StatusTooManyRequests,
		},
		{
			name: "upstream failure",
			body: `{"question":"q"}`,
			err:  fmt.Errorf("chat: %w", &llm.StatusError{StatusCode: 500}),
			want: http.StatusBadGateway,
		},
		{name: "retrieval failure", body: `{"question":"q"}`, err: errors.New("retrieve: refused"), want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&stubAnswerer{err: tt.err}, nil, nil)
			rec := postAnswer(t, h, tt.body, nil)
			assert.Equal(t, tt.want, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAnswer_BearerAuth(t *testing.T) {
	h := newTestRouter(&stubAnswerer{reply: core.Reply{Answer: "ok"}}, &config.HTTPConfig{APIToken: "s3cret"}, nil)

	rec := postAnswer(t, h, `{"question":"q"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postAnswer(t, h, `{"question":"q"}`, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postAnswer(t, h, `{"question":"q"}`, map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnswer_RateLimit(t *testing.T) {
	h := newTestRouter(&stubAnswerer{reply: core.Reply{Answer: "ok"}}, &config.HTTPConfig{RateLimit: 0.001, RateBurst: 2}, nil)

	assert.Equal(t, http.StatusOK, postAnswer(t, h, `{"question":"q"}`, nil).Code)
	assert.Equal(t, http.StatusOK, postAnswer(t, h, `{"question":"q"}`, nil).Code)

	rec := postAnswer(t, h, `{"question":"q"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestExchanges(t *testing.T) {
	j := &stubJournal{items: []core.Exchange{{ID: "e1", Question: "q"}}}
	h := newTestRouter(&stubAnswerer{}, nil, j)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exchanges?limit=1000", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxExchangeLimit, j.limit)

	var got []core.Exchange
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "e1", got[0].ID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exchanges?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExchanges_NotRoutedWithoutJournal(t *testing.T) {
	h := newTestRouter(&stubAnswerer{}, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exchanges", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := NewRouter(&config.HTTPConfig{}, &stubAnswerer{}, stubHealth{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewRouter(&config.HTTPConfig{}, &stubAnswerer{}, stubHealth{err: errors.New("chroma down")}, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "chroma down")
}

func TestAnswer_UpstreamBodyNotExposed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "llm failure",
			err:  fmt.Errorf("chat: %w", &llm.StatusError{StatusCode: 500, Body: `{"error":"internal key sk-secret"}`}),
			want: http.StatusBadGateway,
		},
		{
			name: "llm rate limit",
			err:  fmt.Errorf("chat: %w", &llm.StatusError{StatusCode: 429, Body: "org sk-secret over quota"}),
			want: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&stubAnswerer{err: tt.err}, nil, nil)
			rec := postAnswer(t, h, `{"question":"q"}`, nil)
			assert.Equal(t, tt.want, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotContains(t, resp.Error, "sk-secret")
		})
	}
}

func TestAnswer_EmptyQuestionMessageEchoed(t *testing.T) {
	h := newTestRouter(&stubAnswerer{err: assistant.ErrEmptyQuestion}, nil, nil)
	rec := postAnswer(t, h, `{"question":" "}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, assistant.ErrEmptyQuestion.Error(), resp.Error)
}
