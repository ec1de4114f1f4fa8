package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"humboldt-hq/biotica/pkg/config"
	"humboldt-hq/biotica/pkg/export/lifecycle"
	"humboldt-hq/biotica/pkg/observation"
	"humboldt-hq/biotica/pkg/telemetry/metrics"
)

// Server is the HTTP front end for the observation engine. It reads the
// active configuration from a Holder on every request, so configuration
// reloads apply to in-flight traffic without a restart.
type Server struct {
	holder    *config.Holder
	store     observation.Store
	manager   *lifecycle.Manager
	collector *metrics.Collector
	logger    *slog.Logger

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server over the given store and export manager.
// The collector may be nil when metrics are disabled.
func NewServer(holder *config.Holder, store observation.Store, manager *lifecycle.Manager, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		holder:    holder,
		store:     store,
		manager:   manager,
		collector: collector,
		logger:    logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	cfg := s.holder.Current().Server

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", "address", cfg.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully drains and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.isRunning = false
		s.mu.Unlock()
		if !running || s.httpServer == nil {
			return
		}

		timeout := s.holder.Current().Server.ShutdownTimeout
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		s.logger.Info("Shutting down HTTP server", "timeout", timeout.String())
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("graceful shutdown failed: %w", err)
		}
	})

	return shutdownErr
}

// routes builds the request mux. Method patterns require Go 1.22+.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/search", s.handleSearch)
	mux.HandleFunc("POST /api/v1/export", s.handleExport)
	mux.HandleFunc("GET /api/v1/exports/{id}", s.handleDownload)
	mux.HandleFunc("GET /api/v1/fields/{field}/values", s.handleFieldValues)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.collector != nil {
		mux.Handle("GET /metrics", s.collector.Handler())
	}

	return mux
}
