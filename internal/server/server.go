// Package server exposes the chat service over HTTP: JSON endpoints for
// blocking chat and session CRUD, an SSE endpoint for streaming answers, and
// health/metrics. Transport stays thin; all decisions live in the service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ragchat/internal/domain"
	"ragchat/internal/service"
)

// ChatService is the server-facing subset of the chat service.
type ChatService interface {
	Send(ctx context.Context, sessionID, message string) (service.Answer, error)
	Stream(ctx context.Context, sessionID, message string, onContext func([]domain.ContextItem) error, onChunk func(string) error) (string, error)
}

// DocumentCounter reports store size for the health endpoint.
type DocumentCounter interface {
	Count() int
}

// Config holds the server's transport settings.
type Config struct {
	Port            int
	CORSOrigin      string
	ShutdownTimeout time.Duration
	LLMConfigured   bool
}

// Server is the HTTP front end.
type Server struct {
	cfg      Config
	chat     ChatService
	sessions domain.SessionStore
	store    DocumentCounter
	metrics  http.Handler
	log      zerolog.Logger
	http     *http.Server
}

// New assembles the server. sessions may be nil (session endpoints then
// report empty histories); metricsHandler may be nil to disable /metrics.
func New(cfg Config, chat ChatService, sessions domain.SessionStore, store DocumentCounter, metricsHandler http.Handler, log zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		chat:     chat,
		sessions: sessions,
		store:    store,
		metrics:  metricsHandler,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/send", s.handleSend)
	mux.HandleFunc("POST /api/chat/stream", s.handleStream)
	mux.HandleFunc("POST /api/session/create", s.handleSessionCreate)
	mux.HandleFunc("GET /api/session/{id}", s.handleSessionInfo)
	mux.HandleFunc("GET /api/session/{id}/history", s.handleSessionHistory)
	mux.HandleFunc("DELETE /api/session/{id}", s.handleSessionDelete)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.cors(mux),
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info().Msg("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}

// cors applies the configured allow-origin and short-circuits preflights.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
