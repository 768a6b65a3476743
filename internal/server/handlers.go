package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/models"
)

const (
	maxPayloadBytes = 1 << 20
	maxFeedLimit    = 200
)

type handlers struct {
	store Store
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "OK")
}

func (h *handlers) themes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.store.FetchAll(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to fetch themes")
		http.Error(w, "failed to fetch themes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, themes)
}

// createPost accepts a question payload. The stored question is returned
// with 202 Accepted.
func (h *handlers) createPost(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	var payload models.Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err := dec.Decode(&payload); err != nil {
		l.Warn().Err(err).Msg("Rejected malformed payload")
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	q, err := h.store.CreateQuestion(r.Context(), payload)
	if err != nil {
		l.Error().Err(err).Msg("Failed to store question")
		http.Error(w, "failed to store question", http.StatusInternalServerError)
		return
	}

	l.Info().
		Int64("question_id", q.ID).
		Int("themes", len(payload.SelectedThemes)).
		Int("tags", len(payload.Tags)).
		Msg("Question accepted")
	writeJSON(w, r, http.StatusAccepted, q)
}

func (h *handlers) questions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxFeedLimit)
	}

	qs, err := h.store.RecentQuestions(r.Context(), limit)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to list questions")
		http.Error(w, "failed to list questions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, qs)
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Profile(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to load profile")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(hContentType, cTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write response")
	}
}
