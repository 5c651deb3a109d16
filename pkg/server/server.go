// Package server serves resolved page routes over HTTP.
//
// Every GET or HEAD request that is not an internal endpoint is resolved
// against the router, loaded, rendered and written as HTML:
//
//	srv := server.New(r, router.NewLoader(), server.WithAddress(":3000"))
//	err := srv.Run(ctx)
//
// Internal endpoints:
//   - /healthz returns 200 "ok"
//   - /metrics serves Prometheus metrics when a registry is configured
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/pageroute/pkg/middleware"
	"github.com/vango-dev/pageroute/pkg/router"
)

// Server is the page server.
type Server struct {
	router     *router.Router
	loader     *router.Loader
	config     *Config
	logger     *slog.Logger
	mux        chi.Router
	httpServer *http.Server
}

// New creates a server for r. Routes are loaded with l.
func New(r *router.Router, l *router.Loader, opts ...Option) *Server {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router: r,
		loader: l,
		config: config,
		logger: logger,
	}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(middleware.Logger(s.logger))
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Tracing(s.config.TracingOptions...))
	if reg := s.config.Registry; reg != nil {
		m := middleware.NewHTTPMetrics(
			middleware.WithNamespace(s.config.MetricsNamespace),
			middleware.WithRegistry(reg),
		)
		mux.Use(m.Handler)
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if reg := s.config.Registry; reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	mux.Get("/*", s.servePage)
	mux.Head("/*", s.servePage)
	return mux
}

// Handler returns the server's http.Handler for mounting elsewhere.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String(), "patterns", s.router.Len())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
