package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/deck"
	"github.com/claude/cardcarnage/internal/history"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/claude/cardcarnage/internal/storage"
	"github.com/claude/cardcarnage/internal/workout"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewStore(storage.NewMemory(), log)
	svc := app.New(store, log, app.WithRandSource(rand.NewPCG(1, 2)))
	return New(svc, apiKey, log)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

func TestHandleDecks(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/api/v1/decks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	decks := decode[[]catalog.Deck](t, rec)
	if len(decks) != 4 {
		t.Errorf("decks = %d, want 4", len(decks))
	}
}

func TestHandlePreview(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/api/v1/decks/lower-body/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	d := decode[deck.Deck](t, rec)
	if d.TotalCards != 54 {
		t.Errorf("total_cards = %d, want 54", d.TotalCards)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/decks/arms-only/preview", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown deck status = %d, want 404", rec.Code)
	}
}

// TestWorkoutLifecycle plays a workout through the API: start, complete a
// card, end early, then check history and stats.
func TestWorkoutLifecycle(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/api/v1/workout", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("no workout status = %d, want 404", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/workout", `{"deck":"core-cardio"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start status = %d, want 201: %s", rec.Code, rec.Body)
	}
	v := decode[app.View](t, rec)
	if v.CurrentCard == nil {
		t.Fatal("no current card")
	}
	first := *v.CurrentCard
	if v.Progress.Current != 1 || v.Progress.Total != 54 {
		t.Errorf("progress = %+v, want 1/54", v.Progress)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/workout", `{"deck":"upper-body"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/workout/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", rec.Code)
	}
	v = decode[app.View](t, rec)
	if v.Workout.TotalReps != first.Reps {
		t.Errorf("total_reps = %d, want %d", v.Workout.TotalReps, first.Reps)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/workout/end", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d, want 200", rec.Code)
	}
	v = decode[app.View](t, rec)
	if v.Summary == nil || v.Summary.Status != workout.StatusPartial {
		t.Fatalf("summary = %+v, want partial", v.Summary)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	page := decode[struct {
		Workouts []workout.Summary    `json:"workouts"`
		Stats    history.AllTimeStats `json:"stats"`
		Limit    int                  `json:"limit"`
	}](t, rec)
	if len(page.Workouts) != 1 || page.Limit != defaultPageSize {
		t.Errorf("history = %d workouts limit %d, want 1 limit %d", len(page.Workouts), page.Limit, defaultPageSize)
	}
	if page.Stats.TotalWorkouts != 1 || page.Stats.DecksCompleted != 0 {
		t.Errorf("stats = %+v", page.Stats)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/stats", "")
	stats := decode[struct {
		RepsByExercise map[string]int `json:"reps_by_exercise"`
	}](t, rec)
	if stats.RepsByExercise[first.Exercise.Name] != first.Reps {
		t.Errorf("reps_by_exercise = %v, want %s=%d", stats.RepsByExercise, first.Exercise.Name, first.Reps)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workout", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("after end status = %d, want 404", rec.Code)
	}
}

func TestStartWorkoutBadRequests(t *testing.T) {
	s := newTestServer(t, "")
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"deck":`},
		{"missing deck", `{}`},
		{"unknown deck", `{"deck":"arms-only"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/workout", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestDiscardWorkout(t *testing.T) {
	s := newTestServer(t, "")
	if rec := do(t, s, http.MethodDelete, "/api/v1/workout", ""); rec.Code != http.StatusNotFound {
		t.Errorf("discard without workout = %d, want 404", rec.Code)
	}
	do(t, s, http.MethodPost, "/api/v1/workout", `{"deck":"upper-body"}`)
	if rec := do(t, s, http.MethodDelete, "/api/v1/workout", ""); rec.Code != http.StatusNoContent {
		t.Errorf("discard = %d, want 204", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/api/v1/history", "")
	page := decode[struct {
		Workouts []workout.Summary `json:"workouts"`
	}](t, rec)
	if len(page.Workouts) != 0 {
		t.Errorf("discarded workout recorded in history")
	}
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodPatch, "/api/v1/settings", `{"ace_value":0,"theme":"light"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	st := decode[settings.Settings](t, rec)
	if st.AceValue != 1 {
		t.Errorf("ace_value = %d, want 1 after clamp", st.AceValue)
	}
	if st.Theme != settings.ThemeLight {
		t.Errorf("theme = %q, want light", st.Theme)
	}
	if st.FaceCardValue != 10 {
		t.Errorf("face_card_value = %d, want 10", st.FaceCardValue)
	}

	st = decode[settings.Settings](t, do(t, s, http.MethodGet, "/api/v1/settings", ""))
	if st.Theme != settings.ThemeLight {
		t.Errorf("saved theme = %q, want light", st.Theme)
	}

	st = decode[settings.Settings](t, do(t, s, http.MethodPost, "/api/v1/settings/reset", ""))
	if st != settings.Defaults() {
		t.Errorf("reset = %+v, want defaults", st)
	}
}

// TestMutatingRoutesRequireKey verifies reads stay open while writes need
// the configured API key.
func TestMutatingRoutesRequireKey(t *testing.T) {
	s := newTestServer(t, "secret")

	if rec := do(t, s, http.MethodGet, "/api/v1/settings", ""); rec.Code != http.StatusOK {
		t.Errorf("GET settings = %d, want 200", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/workout", `{"deck":"upper-body"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("POST without key = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workout", strings.NewReader(`{"deck":"upper-body"}`))
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("POST with key = %d, want 201", rec.Code)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"limit=3", 3},
		{"limit=-1", 10},
		{"limit=abc", 10},
		{"limit=0", 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		if got := queryInt(req, "limit", 10); got != tt.want {
			t.Errorf("queryInt(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
