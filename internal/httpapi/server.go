// Package httpapi exposes the query façade (C7) over HTTP: an interactive
// browser page at GET / and a JSON query endpoint at POST /, per spec.md §6.
package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sylv/hubble/internal/health"
	"github.com/sylv/hubble/internal/query"
)

// FeedAger reports how long ago each feed last imported successfully; the
// ingest orchestrator satisfies this so the HTTP layer never imports it
// directly.
type FeedAger interface {
	FeedAges() map[string]time.Duration
}

// Server wires the query façade to chi routes.
type Server struct {
	facade *query.Facade
	db     *sql.DB
	ager   FeedAger
	log    zerolog.Logger
}

func NewServer(facade *query.Facade, db *sql.DB, ager FeedAger, log zerolog.Logger) *Server {
	return &Server{facade: facade, db: db, ager: ager, log: log}
}

// Handler returns the HTTP handler for the whole service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(zerologMiddleware(s.log))

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleQuery)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := health.Status{Store: "ok"}
	if err := health.CheckStore(r.Context(), s.db); err != nil {
		status.Store = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	if s.ager != nil {
		var oldest time.Duration
		for _, age := range s.ager.FeedAges() {
			if age > oldest {
				oldest = age
			}
		}
		if oldest > 0 {
			status.LastImport = oldest.Round(time.Second).String()
			status.Stale = oldest > 7*24*time.Hour
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

// zerologMiddleware logs each request at info level, following the
// teacher's "thread the logger explicitly" convention rather than a
// package-level global.
func zerologMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": kind, "message": message})
}
