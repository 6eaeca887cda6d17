// Package server exposes the mind map pipeline, generator and store over
// HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/layout                  tree → positioned layout
//	POST   /api/render?format=svg       tree → artifact
//	POST   /api/mindmaps                {title, content} → generated, stored mind map
//	GET    /api/mindmaps                list stored mind maps
//	GET    /api/mindmaps/{id}           stored mind map
//	DELETE /api/mindmaps/{id}
//	GET    /api/mindmaps/{id}/layout    layout of a stored mind map
//	GET    /api/mindmaps/{id}/svg       SVG of a stored mind map
//
// Errors are JSON bodies {"error": message, "code": code} with the status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lectura/mindmap/pkg/generate"
	"github.com/lectura/mindmap/pkg/pipeline"
	"github.com/lectura/mindmap/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Config wires the server's dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store

	// Generator may be nil; POST /api/mindmaps then answers 501.
	Generator generate.Generator

	Logger *log.Logger

	// Container size used when a request does not name one.
	DefaultWidth  float64
	DefaultHeight float64
	MaxDepth      int

	ShutdownTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	generator generate.Generator
	logger    *log.Logger

	defaultWidth    float64
	defaultHeight   float64
	maxDepth        int
	shutdownTimeout time.Duration
}

// New creates a server. Runner and Store are required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.DefaultWidth == 0 {
		cfg.DefaultWidth = pipeline.DefaultWidth
	}
	if cfg.DefaultHeight == 0 {
		cfg.DefaultHeight = pipeline.DefaultHeight
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		runner:          cfg.Runner,
		store:           cfg.Store,
		generator:       cfg.Generator,
		logger:          cfg.Logger,
		defaultWidth:    cfg.DefaultWidth,
		defaultHeight:   cfg.DefaultHeight,
		maxDepth:        cfg.MaxDepth,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/render", s.render)

		r.Route("/mindmaps", func(r chi.Router) {
			r.Post("/", s.createMindMap)
			r.Get("/", s.listMindMaps)
			r.Get("/{id}", s.getMindMap)
			r.Delete("/{id}", s.deleteMindMap)
			r.Get("/{id}/layout", s.mindMapLayout)
			r.Get("/{id}/svg", s.mindMapSVG)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", Code: "INVALID_INPUT"})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
