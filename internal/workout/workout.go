package workout

import (
	"maps"
	"slices"
	"time"

	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/deck"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a workout. InProgress is the only
// non-terminal state.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusPartial:
		return true
	}
	return false
}

// Workout is one play-through of a deck. Functions in this package treat it
// as a value: they return an updated copy and never modify their argument.
type Workout struct {
	ID             string         `json:"id"`
	DeckType       string         `json:"deck_type"`
	Deck           []deck.Card    `json:"deck"`
	Cursor         int            `json:"current_card_index"`
	CompletedCards []deck.Card    `json:"completed_cards"`
	TotalReps      int            `json:"total_reps"`
	RepsByExercise map[string]int `json:"reps_by_exercise"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	Status         Status         `json:"status"`
}

// Progress is the display position within a workout.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Engine starts and advances workouts using a deck builder and a clock.
type Engine struct {
	catalog *catalog.Catalog
	builder *deck.Builder
	now     func() time.Time
	newID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an Engine over the given catalog and builder.
func NewEngine(c *catalog.Catalog, b *deck.Builder, opts ...Option) *Engine {
	e := &Engine{
		catalog: c,
		builder: b,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start builds a fresh deck for category and returns a new in-progress
// workout positioned on its first card.
func (e *Engine) Start(category string, s settings.Settings) Workout {
	d := e.builder.Build(category, s)
	return Workout{
		ID:             e.newID(),
		DeckType:       category,
		Deck:           d.Cards,
		CompletedCards: []deck.Card{},
		RepsByExercise: map[string]int{},
		StartTime:      e.now(),
		Status:         StatusInProgress,
	}
}

// CompleteCurrent is Complete stamped with the engine clock.
func (e *Engine) CompleteCurrent(w Workout) Workout {
	return Complete(w, e.now())
}

// EndEarly is End stamped with the engine clock.
func (e *Engine) EndEarly(w Workout) Workout {
	return End(w, e.now())
}

// Summarize is Summarize with the catalog deck name and the engine clock.
func (e *Engine) Summarize(w Workout) Summary {
	name := w.DeckType
	if d, ok := e.catalog.Lookup(w.DeckType); ok {
		name = d.Name
	}
	return Summarize(w, name, e.now())
}

// CurrentCard returns the card under the cursor, or false once the deck is
// exhausted.
func CurrentCard(w Workout) (deck.Card, bool) {
	if w.Cursor < 0 || w.Cursor >= len(w.Deck) {
		return deck.Card{}, false
	}
	return w.Deck[w.Cursor], true
}

// Complete records the current card as done and advances the cursor.
// Playing the last card moves the workout to StatusCompleted with EndTime
// set to now. With no current card, or on a terminal workout, w is returned
// unchanged.
func Complete(w Workout, now time.Time) Workout {
	if w.Status != StatusInProgress {
		return w
	}
	card, ok := CurrentCard(w)
	if !ok {
		return w
	}

	reps := maps.Clone(w.RepsByExercise)
	if reps == nil {
		reps = map[string]int{}
	}
	reps[card.Exercise.Name] += card.Reps

	w.CompletedCards = append(slices.Clip(w.CompletedCards), card)
	w.Cursor++
	w.TotalReps += card.Reps
	w.RepsByExercise = reps

	if w.Cursor >= len(w.Deck) {
		w.Status = StatusCompleted
		w.EndTime = &now
	}
	return w
}

// End stops an in-progress workout, marking it partial regardless of how
// many cards remain. Terminal workouts are returned unchanged.
func End(w Workout, now time.Time) Workout {
	if w.Status != StatusInProgress {
		return w
	}
	w.Status = StatusPartial
	w.EndTime = &now
	return w
}

// Pause returns w unchanged. The workout value is the whole state; pausing
// is the caller persisting it and not calling Complete.
func Pause(w Workout) Workout {
	return w
}

// Resume returns w unchanged.
func Resume(w Workout) Workout {
	return w
}

// GetProgress reports the 1-indexed position of the current card. Once the
// deck is exhausted Current stays at Total rather than following cursor+1.
func GetProgress(w Workout) Progress {
	total := len(w.Deck)
	if total == 0 {
		return Progress{}
	}
	current := min(w.Cursor+1, total)
	return Progress{
		Current:    current,
		Total:      total,
		Percentage: float64(current) / float64(total) * 100,
	}
}

// IsComplete reports whether every card has been played.
func IsComplete(w Workout) bool {
	return w.Status == StatusCompleted || w.Cursor >= len(w.Deck)
}

// Elapsed is the time from start to end, or to now while in progress.
func Elapsed(w Workout, now time.Time) time.Duration {
	end := now
	if w.EndTime != nil {
		end = *w.EndTime
	}
	return end.Sub(w.StartTime)
}
