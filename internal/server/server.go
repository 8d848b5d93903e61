package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/config"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/store"
)

// Server is the relink HTTP API server. Scoring is stateless, so the server
// holds only the store, the configured engine defaults, and the token
// estimator; every context request recomputes from scratch.
type Server struct {
	db        *store.DB
	engine    config.EngineConfig
	estimator scoring.TokenEstimator
	router    chi.Router
	version   string
	started   time.Time
}

// New creates a new Server.
func New(db *store.DB, engine config.EngineConfig, estimator scoring.TokenEstimator, version string) *Server {
	s := &Server{
		db:        db,
		engine:    engine,
		estimator: estimator,
		version:   version,
		started:   time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/sessions/init", s.handleSessionInit)
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions/{sessionID}/segments", s.handleAppendSegment)
		r.Post("/sessions/{sessionID}/end", s.handleEndSession)
		r.Get("/sessions/{sessionID}/context", s.handleGetContext)
		r.Get("/sessions/{sessionID}/summary", s.handleGetSummary)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
