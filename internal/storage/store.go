package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/claude/cardcarnage/internal/deck"
	"github.com/claude/cardcarnage/internal/history"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/claude/cardcarnage/internal/workout"
)

// Keys of the three persisted namespaces.
const (
	KeySettings   = "carnage:settings"
	KeyHistory    = "carnage:history"
	KeyInProgress = "carnage:in-progress-workout"
)

// Store persists settings, history and the in-progress workout as JSON in a
// KV. Backend and decode failures are logged and never returned: loads fall
// back to the namespace default and failed writes leave the old value.
type Store struct {
	kv  KV
	log *slog.Logger
}

// NewStore wraps kv.
func NewStore(kv KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// LoadSettings returns saved settings merged over the defaults, or the
// defaults when nothing valid is stored.
func (s *Store) LoadSettings(ctx context.Context) settings.Settings {
	data, ok := s.read(ctx, KeySettings)
	if !ok {
		return settings.Defaults()
	}
	st := settings.Defaults()
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		s.log.Warn("discarding unreadable settings", "error", err)
		return settings.Defaults()
	}
	return settings.Normalize(st)
}

// SaveSettings stores st.
func (s *Store) SaveSettings(ctx context.Context, st settings.Settings) {
	s.write(ctx, KeySettings, st)
}

// LoadHistory returns the saved history, or an empty one.
func (s *Store) LoadHistory(ctx context.Context) history.History {
	data, ok := s.read(ctx, KeyHistory)
	if !ok {
		return history.New()
	}
	var h history.History
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		s.log.Warn("discarding unreadable history", "error", err)
		return history.New()
	}
	return history.Normalize(h)
}

// SaveHistory stores h.
func (s *Store) SaveHistory(ctx context.Context, h history.History) {
	s.write(ctx, KeyHistory, h)
}

// LoadInProgress returns the saved in-progress workout, if any. A stored
// value that cannot be decoded or is not a valid in-progress workout is
// removed so the namespace reads as empty from then on.
func (s *Store) LoadInProgress(ctx context.Context) (workout.Workout, bool) {
	data, ok := s.read(ctx, KeyInProgress)
	if !ok {
		return workout.Workout{}, false
	}
	var w workout.Workout
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		s.log.Warn("discarding unreadable in-progress workout", "error", err)
		s.ClearInProgress(ctx)
		return workout.Workout{}, false
	}
	if w.Status != workout.StatusInProgress || len(w.Deck) == 0 || w.StartTime.IsZero() {
		s.log.Warn("discarding invalid in-progress workout", "id", w.ID, "status", w.Status)
		s.ClearInProgress(ctx)
		return workout.Workout{}, false
	}
	if w.RepsByExercise == nil {
		w.RepsByExercise = map[string]int{}
	}
	if w.CompletedCards == nil {
		w.CompletedCards = []deck.Card{}
	}
	return w, true
}

// SaveInProgress stores w while it is in progress. Any other status clears
// the namespace instead.
func (s *Store) SaveInProgress(ctx context.Context, w workout.Workout) {
	if w.Status != workout.StatusInProgress {
		s.ClearInProgress(ctx)
		return
	}
	s.write(ctx, KeyInProgress, w)
}

// ClearInProgress removes the saved in-progress workout.
func (s *Store) ClearInProgress(ctx context.Context) {
	if err := s.kv.Remove(ctx, KeyInProgress); err != nil {
		s.log.Error("failed to clear in-progress workout", "error", err)
	}
}

// HasInProgress reports whether a loadable in-progress workout is saved.
func (s *Store) HasInProgress(ctx context.Context) bool {
	_, ok := s.LoadInProgress(ctx)
	return ok
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("storage read failed", "key", key, "error", err)
		return "", false
	}
	return data, ok
}

func (s *Store) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to encode", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Error("failed to save", "key", key, "error", err)
	}
}
