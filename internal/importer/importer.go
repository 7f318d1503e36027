package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/cardcarnage/internal/catalog"
	"github.com/claude/cardcarnage/internal/history"
	"github.com/claude/cardcarnage/internal/storage"
	"github.com/claude/cardcarnage/internal/workout"
)

// Stats tracks import progress.
type Stats struct {
	Read       int
	Imported   int
	Duplicates int
	Rejected   []string
}

// legacyHistory is the history document written by the browser version of
// the app to local storage.
type legacyHistory struct {
	Workouts []legacySummary `json:"workouts"`
}

type legacySummary struct {
	ID             string         `json:"id"`
	DeckType       string         `json:"deckType"`
	DeckName       string         `json:"deckName"`
	Status         string         `json:"status"`
	CardsCompleted int            `json:"cardsCompleted"`
	TotalCards     int            `json:"totalCards"`
	TotalReps      int            `json:"totalReps"`
	RepsByExercise map[string]int `json:"repsByExercise"`
	Duration       int64          `json:"duration"`
	Date           time.Time      `json:"date"`
}

// Importer merges an exported history file into the store.
type Importer struct {
	store   *storage.Store
	catalog *catalog.Catalog
	log     *slog.Logger
	dryRun  bool
	stats   Stats
}

// New creates a new Importer.
func New(store *storage.Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, catalog: catalog.Default(), log: log, dryRun: dryRun}
}

// Import reads the export at path and adds every workout not already in
// history. In dry-run mode nothing is saved.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	var doc legacyHistory
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}

	h := imp.store.LoadHistory(ctx)
	for i, ls := range doc.Workouts {
		imp.stats.Read++
		s, err := imp.convert(ls)
		if err != nil {
			imp.stats.Rejected = append(imp.stats.Rejected, fmt.Sprintf("#%d %s: %v", i, ls.ID, err))
			imp.log.Warn("rejected workout", "index", i, "id", ls.ID, "error", err)
			continue
		}
		if history.Contains(h, s.ID) {
			imp.stats.Duplicates++
			continue
		}
		h = history.Add(h, s)
		imp.stats.Imported++
	}

	if imp.dryRun {
		imp.log.Info("dry run: not saving", "would_import", imp.stats.Imported)
		return &imp.stats, nil
	}
	if imp.stats.Imported > 0 {
		imp.store.SaveHistory(ctx, h)
	}
	return &imp.stats, nil
}

func (imp *Importer) convert(ls legacySummary) (workout.Summary, error) {
	if ls.ID == "" {
		return workout.Summary{}, fmt.Errorf("missing id")
	}
	status := workout.Status(ls.Status)
	if !status.Valid() {
		return workout.Summary{}, fmt.Errorf("unknown status %q", ls.Status)
	}
	if status == workout.StatusInProgress {
		return workout.Summary{}, fmt.Errorf("workout is still in progress")
	}
	if ls.Date.IsZero() {
		return workout.Summary{}, fmt.Errorf("missing date")
	}
	if ls.Duration < 0 || ls.TotalReps < 0 {
		return workout.Summary{}, fmt.Errorf("negative duration or reps")
	}

	name := ls.DeckName
	if d, ok := imp.catalog.Lookup(ls.DeckType); ok && name == "" {
		name = d.Name
	}
	reps := ls.RepsByExercise
	if reps == nil {
		reps = map[string]int{}
	}
	return workout.Summary{
		ID:              ls.ID,
		DeckType:        ls.DeckType,
		DeckName:        name,
		Status:          status,
		CardsCompleted:  ls.CardsCompleted,
		TotalCards:      ls.TotalCards,
		TotalReps:       ls.TotalReps,
		RepsByExercise:  reps,
		DurationSeconds: ls.Duration,
		Date:            ls.Date,
	}, nil
}
