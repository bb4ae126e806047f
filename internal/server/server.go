// Package server exposes the mirrored tree, search index and live change
// feed over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SublimeIbanez/Overseer/internal/history"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/render"
	"github.com/SublimeIbanez/Overseer/internal/search"
	"github.com/SublimeIbanez/Overseer/internal/sse"
	"github.com/SublimeIbanez/Overseer/internal/walker"
)

// Server holds dependencies for the HTTP handlers.
type Server struct {
	overseer *overseer.Overseer
	history  *history.Store
	index    *search.Index
	manager  *sse.Manager
	renderer *render.Renderer
	strategy walker.Strategy
	router   *chi.Mux
	logger   *slog.Logger
}

// New creates an HTTP server with all routes configured. The renderer is
// used for the /tree endpoint; rendered output over HTTP is plain.
func New(
	o *overseer.Overseer,
	hist *history.Store,
	index *search.Index,
	manager *sse.Manager,
	strategy walker.Strategy,
	logger *slog.Logger,
) *Server {
	s := &Server{
		overseer: o,
		history:  hist,
		index:    index,
		manager:  manager,
		renderer: render.NewPlain(),
		strategy: strategy,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/tree", s.handleGetTree)
		r.Post("/walk", s.handleWalk)
		r.Get("/search", s.handleSearch)
		r.Get("/history", s.handleHistory)
		r.Get("/events", s.handleEvents)
	})
}
