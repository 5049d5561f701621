package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sandevgo/techassist/internal/config"
	"github.com/sandevgo/techassist/internal/core"
	"github.com/sandevgo/techassist/pkg/log"
)

// ExchangeLister is satisfied by the journal when it is enabled.
type ExchangeLister interface {
	Recent(ctx context.Context, limit int) ([]core.Exchange, error)
}

type Server struct {
	cfg     *config.HTTPConfig
	handler http.Handler
	srv     *http.Server
}

func NewServer(cfg *config.HTTPConfig, answerer core.Answerer, health core.HealthChecker, journal ExchangeLister) *Server {
	return &Server{
		cfg:     cfg,
		handler: NewRouter(cfg, answerer, health, journal),
	}
}

// NewRouter wires routes and middleware. journal may be nil.
func NewRouter(cfg *config.HTTPConfig, answerer core.Answerer, health core.HealthChecker, journal ExchangeLister) http.Handler {
	h := &handlers{answerer: answerer, health: health, journal: journal}

	router := mux.NewRouter()
	router.Use(requestLogger)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/v1").Subrouter()
	api.Use(bearerAuth(cfg.APIToken), rateLimit(cfg.RateLimit, cfg.RateBurst))
	api.HandleFunc("/answer", h.Answer).Methods(http.MethodPost)
	if journal != nil {
		api.HandleFunc("/exchanges", h.Exchanges).Methods(http.MethodGet)
	}

	return router
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown is called. The request context inherits the
// logger from ctx.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("http server listening")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
