package workout

import (
	"maps"
	"time"
)

// Summary is a compact snapshot of a workout for history and display.
type Summary struct {
	ID              string         `json:"id"`
	DeckType        string         `json:"deck_type"`
	DeckName        string         `json:"deck_name"`
	Status          Status         `json:"status"`
	CardsCompleted  int            `json:"cards_completed"`
	TotalCards      int            `json:"total_cards"`
	TotalReps       int            `json:"total_reps"`
	RepsByExercise  map[string]int `json:"reps_by_exercise"`
	DurationSeconds int64          `json:"duration_sec"`
	Date            time.Time      `json:"date"`
}

// Summarize projects w into a Summary. Duration runs from StartTime to
// EndTime, or to now when the workout has not ended, floored to whole
// seconds.
func Summarize(w Workout, deckName string, now time.Time) Summary {
	reps := maps.Clone(w.RepsByExercise)
	if reps == nil {
		reps = map[string]int{}
	}
	secs := int64(Elapsed(w, now) / time.Second)
	return Summary{
		ID:              w.ID,
		DeckType:        w.DeckType,
		DeckName:        deckName,
		Status:          w.Status,
		CardsCompleted:  len(w.CompletedCards),
		TotalCards:      len(w.Deck),
		TotalReps:       w.TotalReps,
		RepsByExercise:  reps,
		DurationSeconds: max(secs, 0),
		Date:            w.StartTime,
	}
}
