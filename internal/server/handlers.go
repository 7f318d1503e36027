package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 10

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Decks())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	d, err := s.app.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCurrentWorkout(w http.ResponseWriter, r *http.Request) {
	v, err := s.app.Current(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type startRequest struct {
	Deck string `json:"deck"`
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: " + err.Error()))
		return
	}
	if req.Deck == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("deck is required"))
		return
	}

	v, err := s.app.Start(r.Context(), req.Deck)
	if errors.Is(err, app.ErrUnknownDeck) {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleCompleteCard(w http.ResponseWriter, r *http.Request) {
	v, err := s.app.Complete(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleEndWorkout(w http.ResponseWriter, r *http.Request) {
	v, err := s.app.End(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDiscardWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Discard(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)
	page, stats := s.app.History(r.Context(), limit, offset)
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts": page,
		"stats":    stats,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.app.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, totals := s.app.Stats(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":            stats,
		"reps_by_exercise": totals,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Settings(r.Context()))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: " + err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, s.app.UpdateSettings(r.Context(), p))
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.ResetSettings(r.Context()))
}

// writeError maps service errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrUnknownDeck):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrNoWorkout):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrWorkoutInProgress):
		status = http.StatusConflict
	default:
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
