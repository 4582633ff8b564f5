// Package server is a thin HTTP consumer of the language front end:
// it exposes type-checking and evaluation as JSON endpoints over
// chi, the way the teacher exposes its own workflow engine. Running a
// server is out of scope for the core front end itself (spec.md §1);
// this package is ambient surface around it.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wdlkit/wdlkit/internal/config"
	"github.com/wdlkit/wdlkit/internal/eval"
	"github.com/wdlkit/wdlkit/internal/source"
)

// Server is the wdlkit HTTP API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.Config
	startTime time.Time
	src       *source.Resolver
	files     eval.FileIO
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithFileIO overrides the file-access boundary used to evaluate
// I/O-bearing stdlib calls (read_*/write_*/glob/size); the default is
// a LocalFileIO rooted at the process working directory.
func WithFileIO(files eval.FileIO) Option {
	return func(s *Server) { s.files = files }
}

// New creates a new Server with all routes registered.
func New(cfg config.Config, src *source.Resolver, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		src:       src,
		files:     &eval.LocalFileIO{Src: src, WorkDir: "."},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/check", s.handleCheck)
		r.Post("/evaluate", s.handleEvaluate)
	})
}
