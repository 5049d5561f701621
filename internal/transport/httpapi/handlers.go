package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/internal/service/assistant"
	"github.com/sandevgo/techassist/pkg/conv"
	"github.com/sandevgo/techassist/pkg/log"
)

const (
	defaultExchangeLimit = 20
	maxExchangeLimit     = 200
	maxBodyBytes         = 1 << 20
)

type AnswerRequest struct {
	History  []core.HistoryEntry `json:"history"`
	Question string              `json:"question"`
}

type AnswerResponse struct {
	Answer     string          `json:"answer"`
	AnswerHTML string          `json:"answer_html"`
	Sources    []core.Document `json:"sources"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	answerer core.Answerer
	health   core.HealthChecker
	journal  ExchangeLister
}

func (h *handlers) Answer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnswerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.answerer.Respond(ctx, req.History, req.Question)
	if err != nil {
		status := statusFor(err)
		log.FromCtx(ctx).Error().Err(err).Int("status", status).Msg("answer failed")
		sendError(w, status, publicMessage(status, err))
		return
	}

	sources := reply.Documents
	if sources == nil {
		sources = []core.Document{}
	}
	sendJSON(w, http.StatusOK, AnswerResponse{
		Answer:     reply.Answer,
		AnswerHTML: conv.MarkdownToHTML([]byte(reply.Answer)),
		Sources:    sources,
	})
}

func (h *handlers) Exchanges(w http.ResponseWriter, r *http.Request) {
	limit := defaultExchangeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sendError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxExchangeLimit)
	}

	exchanges, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("list exchanges failed")
		sendError(w, http.StatusInternalServerError, "failed to list exchanges")
		return
	}
	if exchanges == nil {
		exchanges = []core.Exchange{}
	}
	sendJSON(w, http.StatusOK, exchanges)
}

func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		log.FromCtx(r.Context()).Warn().Err(err).Msg("health check failed")
		sendError(w, http.StatusServiceUnavailable, "vector store unavailable")
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusCoder interface {
	HTTPStatusCode() int
}

// statusFor maps answer errors: caller mistakes are 400, upstream rate
// limits pass through as 429, anything else upstream is a bad gateway.
func statusFor(err error) int {
	if errors.Is(err, assistant.ErrEmptyQuestion) {
		return http.StatusBadRequest
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.HTTPStatusCode() == http.StatusTooManyRequests {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

// publicMessage keeps backend detail, including upstream response bodies,
// out of replies; only caller mistakes are echoed back.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusTooManyRequests:
		return "upstream rate limit exceeded, retry later"
	default:
		return "failed to produce an answer"
	}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, ErrorResponse{Error: msg})
}
