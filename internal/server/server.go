// Package server provides the HTTP scaffold for the scheduler.
//
// It sets up a chi router with standard middleware (request ID, real IP, zap
// access logging, recovery), /health and /metrics endpoints, and graceful
// shutdown. The scheduler endpoint is mounted as the catch-all route.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is an HTTP server with standard middleware and graceful shutdown.
type Server struct {
	Router *chi.Mux
	logger *zap.Logger
	srv    *http.Server
	onStop []func()
}

// New creates a Server with middleware, /health and /metrics already applied.
// gatherer backs /metrics; nil serves the default registry.
func New(logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{Router: r, logger: logger}
}

// Mount routes every request not matched by another route to h.
func (s *Server) Mount(h http.HandlerFunc) {
	s.Router.HandleFunc("/*", h)
}

// OnStop registers a function to call during graceful shutdown.
func (s *Server) OnStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

// ListenAndServe starts the server on addr and blocks until ctx is done. It
// then stops accepting connections, waits for in-flight requests, and only
// afterwards runs the OnStop hooks.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // room for a provider round trip
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.ListenAndServe()
	}()
	s.logger.Info("server starting", zap.String("addr", addr))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdownErr := s.srv.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		s.logger.Error("server shutdown error", zap.Error(shutdownErr))
	}
	<-errc

	for _, fn := range s.onStop {
		fn()
	}

	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	s.logger.Info("server stopped")
	return nil
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("trace_id", ww.Header().Get("X-Trace-Id")),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
