package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/store"
)

// DefaultTimeout bounds the handling of a single request.
const DefaultTimeout = 30 * time.Second

// shutdownGrace is how long Run waits for in-flight requests on shutdown.
const shutdownGrace = 10 * time.Second

// Config holds the dependencies of a Server.
type Config struct {
	// Runner builds (or loads from cache) project lists. Required.
	Runner *project.Runner
	// Store receives a snapshot of every freshly built list and serves the
	// snapshot endpoint. Defaults to a MemoryStore.
	Store store.Store
	// Options are the project options used for every request. Refresh is
	// controlled per request.
	Options project.Options
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	Logger  *log.Logger
}

// Server serves project lists over HTTP.
type Server struct {
	runner  *project.Runner
	store   store.Store
	opts    project.Options
	timeout time.Duration
	logger  *log.Logger
	router  chi.Router
}

// New creates a Server and mounts its routes.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		opts:    cfg.Options,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/users/{user}", func(r chi.Router) {
		r.Get("/projects", s.handleProjects)
		r.Get("/projects.{format}", s.handleRenderedProjects)
		r.Get("/snapshot", s.handleSnapshot)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
