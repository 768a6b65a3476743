// Package server exposes the question store over HTTP for remote clients.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/models"
)

const (
	hContentType = "Content-Type"
	hRequestID   = "X-Request-Id"
	cTypeJSON    = "application/json"
)

// Store is the storage the service reads from and posts into
type Store interface {
	FetchAll(ctx context.Context) ([]models.Theme, error)
	CreateQuestion(ctx context.Context, payload models.Payload) (*models.Question, error)
	RecentQuestions(ctx context.Context, limit int) ([]models.Question, error)
	Profile(ctx context.Context) (models.Profile, error)
}

// NewRouter wires every route onto a mux router
func NewRouter(store Store, l zerolog.Logger) *mux.Router {
	h := &handlers{store: store}

	r := mux.NewRouter()
	r.Use(withLogger(l))
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/themes", h.themes).Methods(http.MethodGet)
	r.HandleFunc("/posts", h.createPost).Methods(http.MethodPost)
	r.HandleFunc("/questions", h.questions).Methods(http.MethodGet)
	r.HandleFunc("/profile", h.profile).Methods(http.MethodGet)
	return r
}

// withLogger attaches a request scoped logger and logs each request once
// it has been served
func withLogger(base zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(hRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			l := base.With().Str("request_id", id).Logger()
			w.Header().Set(hRequestID, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(l.WithContext(r.Context())))

			l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("elapsed", time.Since(start)).
				Msg("request served")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
