// Package server exposes the maze solver over HTTP.
//
// Routes:
//
//	POST /v1/solve?output=json|path|nodes   solve the maze in the request body
//	GET  /healthz                           build information
//	GET  /metrics                           Prometheus metrics
//
// The body of a solve request is the raw maze: an image in any supported
// format or a text picture. Solver and render settings may be overridden
// with the query parameters frontier, entrance_weight, threshold, scale,
// palette and verify.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mazeroute/pkg/config"
	"github.com/matzehuels/mazeroute/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context passed to ListenAndServe is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves solve requests through a shared pipeline runner.
type Server struct {
	cfg      config.Server
	runner   *pipeline.Runner
	base     pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a server. base carries the solver and render defaults each
// request starts from. gatherer backs /metrics; nil uses the default
// Prometheus registry.
func New(cfg config.Server, runner *pipeline.Runner, base pipeline.Options, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		base:     base,
		logger:   logger,
		gatherer: gatherer,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
