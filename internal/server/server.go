// Package server exposes include resolution over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build info
//	POST /v1/resolve   flatten one document
//	POST /v1/check     resolve many roots, report cycles and errors
//	GET  /v1/stats     resolution and cache counters
//
// Requests either name files under the server's root directory or carry the
// documents inline in a "files" object. Identical concurrent resolve
// requests are collapsed into one run.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/shaderinc/pkg/pipeline"
)

const (
	// maxBodyBytes bounds request bodies, inline documents included.
	maxBodyBytes = 8 << 20

	// defaultTimeout bounds a single resolution.
	defaultTimeout = 30 * time.Second

	// maxCheckPaths bounds the roots of one /v1/check request.
	maxCheckPaths = 1000
)

// Options configures a Server.
type Options struct {
	// Root is the directory path requests resolve against.
	Root string

	// Relative is the default include mode; requests may override it.
	Relative bool

	// MaxDepth is the default include depth limit.
	MaxDepth int

	// Timeout bounds each resolution. Defaults to 30s.
	Timeout time.Duration

	// Stats is reported by GET /v1/stats. It only counts events once
	// registered as observability hooks.
	Stats *Stats

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	stats   *Stats
	group   singleflight.Group
	handler http.Handler
}

// New creates a server that resolves through runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	stats := opts.Stats
	if stats == nil {
		stats = &Stats{}
	}
	s := &Server{runner: runner, opts: opts, logger: logger, stats: stats}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/check", s.handleCheck)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "root", s.opts.Root)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
