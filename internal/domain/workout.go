package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Exercise is one timed segment of a workout. Offsets and durations are seconds.
type Exercise struct {
	ID          string
	Name        string
	Type        string
	StartOffset float64
	Duration    float64
	Intensity   Intensity
}

// End returns the exclusive end offset of the exercise.
func (e Exercise) End() float64 {
	return e.StartOffset + e.Duration
}

// Contains reports whether t falls in [StartOffset, StartOffset+Duration).
func (e Exercise) Contains(t float64) bool {
	return t >= e.StartOffset && t < e.End()
}

// WorkoutDefinition is the immutable input to a session.
type WorkoutDefinition struct {
	ID            string
	Name          string
	TotalDuration float64
	Exercises     []Exercise
	CreatedAt     time.Time
}

// Normalize sorts exercises by start offset (stable, so equal offsets keep
// input order) and fills the default intensity.
func (w *WorkoutDefinition) Normalize() {
	sort.SliceStable(w.Exercises, func(i, j int) bool {
		return w.Exercises[i].StartOffset < w.Exercises[j].StartOffset
	})
	for i := range w.Exercises {
		if w.Exercises[i].Intensity == "" {
			w.Exercises[i].Intensity = IntensityMedium
		}
	}
}

// Validate checks that the workout can drive a session: positive total
// duration, unique exercise ids, every exercise inside [0, TotalDuration] and
// no two exercises overlapping. Exercises must already be normalized.
func (w *WorkoutDefinition) Validate() error {
	if w.ID == "" {
		return NewValidationError("workout.id", "is required")
	}
	if !isFinite(w.TotalDuration) || w.TotalDuration <= 0 {
		return NewValidationError("workout.total_duration", "must be positive, got %v", w.TotalDuration)
	}

	seen := make(map[string]bool, len(w.Exercises))
	for i, ex := range w.Exercises {
		field := fmt.Sprintf("exercises[%d]", i)
		if ex.ID == "" {
			return NewValidationError(field+".id", "is required")
		}
		if seen[ex.ID] {
			return NewValidationError(field+".id", "duplicate id %q", ex.ID)
		}
		seen[ex.ID] = true

		if !isFinite(ex.StartOffset) || ex.StartOffset < 0 {
			return NewValidationError(field+".start_offset", "must be >= 0, got %v", ex.StartOffset)
		}
		if !isFinite(ex.Duration) || ex.Duration <= 0 {
			return NewValidationError(field+".duration", "must be positive, got %v", ex.Duration)
		}
		if ex.End() > w.TotalDuration {
			return NewValidationError(field, "%q ends at %v, past total duration %v", ex.ID, ex.End(), w.TotalDuration)
		}
		if ex.Intensity != "" && !ValidIntensities[string(ex.Intensity)] {
			return NewValidationError(field+".intensity", "invalid value %q", ex.Intensity)
		}
		if i > 0 {
			prev := w.Exercises[i-1]
			if ex.StartOffset < prev.StartOffset {
				return NewValidationError(field, "exercises are not sorted by start offset")
			}
			if ex.StartOffset < prev.End() {
				return NewValidationError(field, "%q overlaps %q", ex.ID, prev.ID)
			}
		}
	}
	return nil
}

// ExerciseByID returns the exercise with the given id.
func (w *WorkoutDefinition) ExerciseByID(id string) (Exercise, bool) {
	for _, ex := range w.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

// ExerciseIndexAt returns the index of the exercise containing t, or -1 when t
// falls in a gap or at/after the end. Exercises must be normalized.
func (w *WorkoutDefinition) ExerciseIndexAt(t float64) int {
	// first exercise starting after t; the candidate is the one before it
	i := sort.Search(len(w.Exercises), func(i int) bool {
		return w.Exercises[i].StartOffset > t
	})
	if i == 0 {
		return -1
	}
	if w.Exercises[i-1].Contains(t) {
		return i - 1
	}
	return -1
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
