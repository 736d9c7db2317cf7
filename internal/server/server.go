// Package server exposes worksheet operations over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sheetwright/sheetwright/internal/service"
)

// Server is the HTTP API server.
type Server struct {
	svc       *service.Service
	workspace string
	host      string
	port      int
	logger    *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Service      *service.Service
	WorkspaceDir string
	Host         string
	Port         int
	Logger       *slog.Logger
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:       cfg.Service,
		workspace: cfg.WorkspaceDir,
		host:      cfg.Host,
		port:      cfg.Port,
		logger:    logger,
	}
}

// Handler builds the full route tree. Exposed so tests can drive the
// server through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		s.requestLog,
	)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleRoot)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/clean", s.handleClean)
		r.Post("/profile", s.handleProfile)
		r.Post("/pivot", s.handlePivot)
		r.Post("/insert-formula", s.handleInsertFormula)
		r.Post("/query", s.handleQuery)
	})

	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("starting API server", "addr", addr, "workspace", s.workspace)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLog tags every request with an ID and logs it on completion.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
