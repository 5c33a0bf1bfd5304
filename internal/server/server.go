// Package server exposes the market analysis API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nijhum/phonepulse/internal/alert"
	"github.com/nijhum/phonepulse/internal/intel"
	"github.com/nijhum/phonepulse/internal/service"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// EstimateRateLimit caps /estimate_price requests per client per minute.
	EstimateRateLimit int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8000",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		EstimateRateLimit: 10,
	}
}

// Server wires storage, analysis and alerting behind the HTTP API.
type Server struct {
	cfg      Config
	storage  service.Storage
	analyzer *intel.Analyzer
	alerts   *alert.Service
	cache    service.ReportCache
	logger   *slog.Logger
	limiter  *clientLimiter
}

// New creates a Server. The cache may be nil to disable report caching.
func New(cfg Config, storage service.Storage, analyzer *intel.Analyzer, alerts *alert.Service, cache service.ReportCache, logger *slog.Logger) (*Server, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if alerts == nil {
		return nil, errors.New("alert service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.EstimateRateLimit <= 0 {
		cfg.EstimateRateLimit = DefaultConfig().EstimateRateLimit
	}

	return &Server{
		cfg:      cfg,
		storage:  storage,
		analyzer: analyzer,
		alerts:   alerts,
		cache:    cache,
		logger:   logger,
		limiter:  newClientLimiter(cfg.EstimateRateLimit),
	}, nil
}

// Routes builds the request multiplexer for the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /get_Brands", s.handleGetBrands)
	mux.HandleFunc("GET /get_Models", s.handleGetModels)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /compare", s.handleCompare)
	mux.HandleFunc("POST /create_alert", s.handleCreateAlert)
	mux.HandleFunc("GET /my_alerts", s.handleMyAlerts)
	mux.HandleFunc("DELETE /delete_alert/{id}", s.handleDeleteAlert)
	mux.HandleFunc("GET /check_alerts", s.handleCheckAlerts)
	mux.HandleFunc("GET /get_form_options", s.handleFormOptions)
	mux.Handle("POST /estimate_price", s.limiter.middleware(http.HandlerFunc(s.handleEstimatePrice)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(s.logger, w, http.StatusNotFound, map[string]any{"error": "Endpoint not found"})
	})

	return mux
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}
