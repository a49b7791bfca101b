// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package ops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds ops server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8314".
	Addr string

	// RequestRate is the per-IP request budget per minute.
	RequestRate int

	// ShutdownTimeout bounds graceful shutdown on supervisor stop.
	ShutdownTimeout time.Duration
}

// ReadinessChecker reports whether the backing store is usable. The store
// satisfies this with its self-healing load pass.
type ReadinessChecker interface {
	EnsureFiles() error
}

// Server is the ops HTTP server, runnable under suture supervision.
type Server struct {
	cfg    Config
	server *http.Server
	logger zerolog.Logger
}

// NewServer builds the ops server and its router.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewServer(cfg Config, readiness ReadinessChecker, logger zerolog.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RequestRate <= 0 {
		cfg.RequestRate = 120
	}
	componentLogger := logger.With().Str("component", "ops").Logger()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(cfg.RequestRate, time.Minute))

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(readiness, componentLogger))
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: componentLogger,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve implements the suture.Service interface. ListenAndServe runs in a
// goroutine; context cancellation triggers a bounded graceful shutdown.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info().Str("addr", s.cfg.Addr).Msg("ops server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ops server shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String returns the service name for supervisor logging.
func (s *Server) String() string {
	return "ops-server"
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleReadyz probes the backing store. A failed probe means the data
// directory is unusable, so the process should not receive traffic.
func handleReadyz(readiness ReadinessChecker, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := readiness.EnsureFiles(); err != nil {
			logger.Warn().Err(err).Msg("readiness probe failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	}
}
