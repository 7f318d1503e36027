// Package app wires settings, deck building, workout progression and history
// together over a Store. Every mutation is persisted before it returns.
package app

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/deck"
	"github.com/claude/cardcarnage/internal/history"
	"github.com/claude/cardcarnage/internal/settings"
	"github.com/claude/cardcarnage/internal/storage"
	"github.com/claude/cardcarnage/internal/timefmt"
	"github.com/claude/cardcarnage/internal/workout"
)

var (
	ErrUnknownDeck       = errors.New("unknown deck")
	ErrNoWorkout         = errors.New("no workout in progress")
	ErrWorkoutInProgress = errors.New("a workout is already in progress")
)

// Service is the single entry point used by the HTTP and MCP surfaces.
// Calls are serialized.
type Service struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	builder *deck.Builder
	engine  *workout.Engine
	store   *storage.Store
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*options)

type options struct {
	catalog *catalog.Catalog
	src     rand.Source
	now     func() time.Time
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithRandSource seeds deck shuffling.
func WithRandSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Service persisting through store.
func New(store *storage.Store, log *slog.Logger, opts ...Option) *Service {
	o := options{catalog: catalog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	b := deck.NewBuilder(o.catalog, o.src)
	return &Service{
		catalog: o.catalog,
		builder: b,
		engine:  workout.NewEngine(o.catalog, b, workout.WithClock(o.now)),
		store:   store,
		log:     log,
		now:     o.now,
	}
}

// View is a workout as the display surface shows it.
type View struct {
	Workout     workout.Workout  `json:"workout"`
	CurrentCard *deck.Card       `json:"current_card"`
	Progress    workout.Progress `json:"progress"`
	Elapsed     string           `json:"elapsed"`
	Summary     *workout.Summary `json:"summary,omitempty"`
}

// Decks returns the catalog decks in display order.
func (s *Service) Decks() []catalog.Deck {
	return s.catalog.Decks()
}

// Preview builds a deck for deckID under the current settings without
// starting a workout.
func (s *Service) Preview(ctx context.Context, deckID string) (deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Lookup(deckID); !ok {
		return deck.Deck{}, ErrUnknownDeck
	}
	return s.builder.Build(deckID, s.store.LoadSettings(ctx)), nil
}

func (s *Service) Settings(ctx context.Context) settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadSettings(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, p settings.Patch) settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := settings.Update(s.store.LoadSettings(ctx), p)
	s.store.SaveSettings(ctx, st)
	return st
}

func (s *Service) ResetSettings(ctx context.Context) settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := settings.Reset()
	s.store.SaveSettings(ctx, st)
	return st
}

// Start begins a workout on deckID. A saved in-progress workout must be
// finished, ended or discarded first.
func (s *Service) Start(ctx context.Context, deckID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Lookup(deckID); !ok {
		return View{}, ErrUnknownDeck
	}
	if s.store.HasInProgress(ctx) {
		return View{}, ErrWorkoutInProgress
	}
	w := s.engine.Start(deckID, s.store.LoadSettings(ctx))
	s.store.SaveInProgress(ctx, w)
	s.log.Info("workout started", "id", w.ID, "deck", deckID, "cards", len(w.Deck))
	return s.view(w, nil), nil
}

// Current returns the saved in-progress workout.
func (s *Service) Current(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.LoadInProgress(ctx)
	if !ok {
		return View{}, ErrNoWorkout
	}
	return s.view(w, nil), nil
}

// Complete marks the current card done. Finishing the last card records the
// workout in history and the returned View carries its summary.
func (s *Service) Complete(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.LoadInProgress(ctx)
	if !ok {
		return View{}, ErrNoWorkout
	}
	w = s.engine.CompleteCurrent(w)
	if w.Status == workout.StatusInProgress {
		s.store.SaveInProgress(ctx, w)
		return s.view(w, nil), nil
	}
	sum := s.finish(ctx, w)
	s.log.Info("workout completed", "id", w.ID, "reps", sum.TotalReps, "duration_sec", sum.DurationSeconds)
	return s.view(w, &sum), nil
}

// End stops the in-progress workout early and records it as partial.
func (s *Service) End(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.LoadInProgress(ctx)
	if !ok {
		return View{}, ErrNoWorkout
	}
	w = s.engine.EndEarly(w)
	sum := s.finish(ctx, w)
	s.log.Info("workout ended early", "id", w.ID, "cards", sum.CardsCompleted, "of", sum.TotalCards)
	return s.view(w, &sum), nil
}

// Discard drops the in-progress workout without recording it.
func (s *Service) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasInProgress(ctx) {
		return ErrNoWorkout
	}
	s.store.ClearInProgress(ctx)
	return nil
}

// History returns one page of workouts, newest first, and the stats.
func (s *Service) History(ctx context.Context, limit, offset int) ([]workout.Summary, history.AllTimeStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.store.LoadHistory(ctx)
	return history.LoadMore(h, limit, offset), h.Stats
}

// Stats returns all-time stats and reps per exercise.
func (s *Service) Stats(ctx context.Context) (history.AllTimeStats, map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.store.LoadHistory(ctx)
	return h.Stats, history.ExerciseTotals(h)
}

// ClearHistory erases all history and any in-progress workout.
func (s *Service) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SaveHistory(ctx, history.Clear(s.store.LoadHistory(ctx)))
	s.store.ClearInProgress(ctx)
	s.log.Info("history cleared")
}

func (s *Service) finish(ctx context.Context, w workout.Workout) workout.Summary {
	sum := s.engine.Summarize(w)
	s.store.SaveHistory(ctx, history.Add(s.store.LoadHistory(ctx), sum))
	s.store.SaveInProgress(ctx, w)
	return sum
}

func (s *Service) view(w workout.Workout, sum *workout.Summary) View {
	v := View{
		Workout:  w,
		Progress: workout.GetProgress(w),
		Elapsed:  timefmt.Elapsed(workout.Elapsed(w, s.now())),
		Summary:  sum,
	}
	if c, ok := workout.CurrentCard(w); ok {
		v.CurrentCard = &c
	}
	return v
}
