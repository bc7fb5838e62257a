// Package httpapi exposes browsing sessions over a JSON HTTP API. Each
// request loads the session snapshot from the store, applies one
// operation and saves it back.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/art-explorer/pkg/metrics"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves the session API.
type Server struct {
	searcher session.Searcher
	renderer *render.Renderer
	store    session.Store
	logger   zerolog.Logger

	locks session.Locker
	newID func() string
}

// New creates a server. searcher runs searches; renderer hydrates pages.
func New(searcher session.Searcher, renderer *render.Renderer, store session.Store) *Server {
	return &Server{
		searcher: searcher,
		renderer: renderer,
		store:    store,
		logger:   log.With().Str("component", "httpapi").Logger(),
		newID:    uuid.NewString,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/search", s.handleSearch)
	mux.HandleFunc("GET /api/sessions/{id}/page", s.handlePage)
	mux.HandleFunc("POST /api/sessions/{id}/next", s.handleNext)
	mux.HandleFunc("POST /api/sessions/{id}/prev", s.handlePrev)
	mux.HandleFunc("GET /api/objects/{oid}", s.handleObject)

	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("Server shutdown failed")
			return err
		}
		s.logger.Info().Msg("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// lock serializes load-mutate-save cycles on one session.
func (s *Server) lock(id string) func() {
	return s.locks.Lock(id)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
