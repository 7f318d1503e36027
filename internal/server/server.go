package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	app    *app.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves mutating routes open.
func New(svc *app.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		app:    svc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/decks", s.handleDecks)
		r.Get("/decks/{id}/preview", s.handlePreview)
		r.Get("/workout", s.handleCurrentWorkout)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/settings", s.handleGetSettings)

		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/workout", s.handleStartWorkout)
			r.Post("/workout/complete", s.handleCompleteCard)
			r.Post("/workout/end", s.handleEndWorkout)
			r.Delete("/workout", s.handleDiscardWorkout)
			r.Delete("/history", s.handleClearHistory)
			r.Patch("/settings", s.handleUpdateSettings)
			r.Post("/settings/reset", s.handleResetSettings)
		})
	})
}
