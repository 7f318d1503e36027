package history

import (
	"maps"
	"slices"

	"github.com/claude/cardcarnage/internal/workout"
)

// AllTimeStats aggregates every workout in a History.
type AllTimeStats struct {
	TotalWorkouts    int   `json:"total_workouts"`
	TotalReps        int   `json:"total_reps"`
	TotalTimeSeconds int64 `json:"total_time_sec"`
	DecksCompleted   int   `json:"decks_completed"`
}

// History is the log of finished workouts, newest first. Stats is always
// recomputed from Workouts, never patched.
type History struct {
	Workouts []workout.Summary `json:"workouts"`
	Stats    AllTimeStats      `json:"stats"`
}

// New returns an empty History.
func New() History {
	return History{Workouts: []workout.Summary{}}
}

// Add returns a new History with s inserted, sorted newest first, and stats
// recomputed over the whole list. Summaries with equal dates keep their
// insertion order.
func Add(h History, s workout.Summary) History {
	workouts := make([]workout.Summary, 0, len(h.Workouts)+1)
	workouts = append(workouts, h.Workouts...)
	workouts = append(workouts, s)
	slices.SortStableFunc(workouts, func(a, b workout.Summary) int {
		return b.Date.Compare(a.Date)
	})
	return History{Workouts: workouts, Stats: ComputeStats(workouts)}
}

// ComputeStats aggregates workouts from scratch.
func ComputeStats(workouts []workout.Summary) AllTimeStats {
	var st AllTimeStats
	for _, w := range workouts {
		st.TotalWorkouts++
		st.TotalReps += w.TotalReps
		st.TotalTimeSeconds += w.DurationSeconds
		if w.Status == workout.StatusCompleted {
			st.DecksCompleted++
		}
	}
	return st
}

// Recent returns up to limit of the newest workouts.
func Recent(h History, limit int) []workout.Summary {
	return LoadMore(h, limit, 0)
}

// LoadMore returns the page [offset, offset+limit). Out of range pages are
// empty, never nil.
func LoadMore(h History, limit, offset int) []workout.Summary {
	if limit <= 0 || offset < 0 || offset >= len(h.Workouts) {
		return []workout.Summary{}
	}
	end := min(offset+limit, len(h.Workouts))
	return slices.Clone(h.Workouts[offset:end])
}

// Clear returns an empty History.
func Clear(History) History {
	return New()
}

// ExerciseTotals sums reps per exercise name across all workouts.
func ExerciseTotals(h History) map[string]int {
	out := map[string]int{}
	for _, w := range h.Workouts {
		for name, n := range w.RepsByExercise {
			out[name] += n
		}
	}
	return out
}

// Contains reports whether a workout with id is already recorded.
func Contains(h History, id string) bool {
	return slices.ContainsFunc(h.Workouts, func(s workout.Summary) bool { return s.ID == id })
}

// Normalize restores the invariants of a History decoded from storage:
// newest-first order, non-nil maps and freshly computed stats.
func Normalize(h History) History {
	workouts := slices.Clone(h.Workouts)
	if workouts == nil {
		workouts = []workout.Summary{}
	}
	for i := range workouts {
		if workouts[i].RepsByExercise == nil {
			workouts[i].RepsByExercise = map[string]int{}
		} else {
			workouts[i].RepsByExercise = maps.Clone(workouts[i].RepsByExercise)
		}
	}
	slices.SortStableFunc(workouts, func(a, b workout.Summary) int {
		return b.Date.Compare(a.Date)
	})
	return History{Workouts: workouts, Stats: ComputeStats(workouts)}
}
