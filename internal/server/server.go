package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/planfit/internal/catalog"
	"github.com/claude/planfit/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db            *storage.DB
	cat           *catalog.Catalog
	log           *slog.Logger
	apiKey        string
	allowedOrigin string
	router        chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, cat *catalog.Catalog, apiKey, allowedOrigin string, log *slog.Logger) *Server {
	s := &Server{
		db:            db,
		cat:           cat,
		log:           log,
		apiKey:        apiKey,
		allowedOrigin: allowedOrigin,
		router:        chi.NewRouter(),
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
	s.router.Use(CORS(s.allowedOrigin))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/profile/form", s.handleProfileForm)
		r.Post("/profiles/validate", s.handleValidateProfile)
		r.Post("/profiles", s.handleSaveProfile)
		r.Get("/profiles/latest", s.handleLatestProfile)

		r.Post("/plans", s.handleGeneratePlan)

		r.Post("/sessions", s.handleSaveSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/latest", s.handleLatestSession)
		r.Post("/sessions/{id}/refinements", s.handleAppendRefinement)

		r.Post("/feedback", s.handleFeedback)
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}
