// Package server exposes the single infobox endpoint over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wikibox/internal/model"
)

// Server is the inbound HTTP server
type Server struct {
	httpServer     *http.Server
	runner         Runner
	logger         *zap.Logger
	requestTimeout time.Duration
	shutdownWait   time.Duration
}

// New creates a Server serving the given runner
func New(cfg model.ServerConfig, runner Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner:         runner,
		logger:         logger,
		requestTimeout: cfg.RequestTimeout,
		shutdownWait:   cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/infobox", s.handleInfobox)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.accessLog(mux),
		ReadHeaderTimeout: 5 * time.Second,
		// One extra second so the handler's own deadline fires first
		WriteTimeout: cfg.RequestTimeout + time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler, for tests
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// ListenAndServe blocks until the listener fails or Shutdown is called
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	drainCtx, cancel := context.WithTimeout(ctx, s.shutdownWait)
	defer cancel()
	return s.httpServer.Shutdown(drainCtx)
}

// statusRecorder captures the response status for access logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.Query().Get("q")),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
