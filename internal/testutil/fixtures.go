package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/google/uuid"
)

var testWorkoutCounter atomic.Int64

// Workout options
type WorkoutOption func(*domain.WorkoutDefinition)

func WithWorkoutID(id string) WorkoutOption {
	return func(w *domain.WorkoutDefinition) {
		w.ID = id
	}
}

func WithTotalDuration(seconds float64) WorkoutOption {
	return func(w *domain.WorkoutDefinition) {
		w.TotalDuration = seconds
	}
}

// WithExercise appends an exercise spanning [start, start+duration).
func WithExercise(id string, start, duration float64) WorkoutOption {
	return func(w *domain.WorkoutDefinition) {
		w.Exercises = append(w.Exercises, domain.Exercise{
			ID:          id,
			Name:        "Exercise " + id,
			Type:        "neuro",
			StartOffset: start,
			Duration:    duration,
			Intensity:   domain.IntensityMedium,
		})
	}
}

func WithNoExercises() WorkoutOption {
	return func(w *domain.WorkoutDefinition) {
		w.Exercises = nil
	}
}

// NewTestWorkout returns a valid 20-minute workout with two back-to-back
// exercises unless options say otherwise.
func NewTestWorkout(name string, opts ...WorkoutOption) *domain.WorkoutDefinition {
	n := testWorkoutCounter.Add(1)
	w := &domain.WorkoutDefinition{
		ID:            fmt.Sprintf("workout-%d", n),
		Name:          name,
		TotalDuration: 1200,
		Exercises: []domain.Exercise{
			{ID: "w1", Name: "Balance Reach", Type: "balance", StartOffset: 0, Duration: 600, Intensity: domain.IntensityLow},
			{ID: "w2", Name: "Dual-Task Stepping", Type: "neuro", StartOffset: 600, Duration: 600, Intensity: domain.IntensityHigh},
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session result options
type ResultOption func(*domain.SessionResult)

func WithUserID(id string) ResultOption {
	return func(r *domain.SessionResult) {
		r.UserID = id
	}
}

func WithCompletedAt(t time.Time) ResultOption {
	return func(r *domain.SessionResult) {
		r.CompletedAt = t
	}
}

func WithElapsed(seconds float64) ResultOption {
	return func(r *domain.SessionResult) {
		r.TotalElapsed = seconds
		r.CaloriesEstimate = seconds / 60 * 5
	}
}

func WithCognitiveScore(score float64) ResultOption {
	return func(r *domain.SessionResult) {
		r.FinalCognitiveScore = score
	}
}

func NewTestResult(workoutID string, opts ...ResultOption) *domain.SessionResult {
	r := &domain.SessionResult{
		SessionID:           uuid.New().String(),
		WorkoutID:           workoutID,
		UserID:              "local",
		TotalElapsed:        1200,
		CaloriesEstimate:    100,
		FinalCognitiveScore: 50,
		FinalHeartRate:      96,
		Status:              domain.SessionCompleted,
		CompletedAt:         time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewTestFeedback(sessionID string, ratings domain.FeedbackRatings) *domain.NeurofeedbackSample {
	return &domain.NeurofeedbackSample{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		UserID:         "local",
		Ratings:        ratings,
		HeartRate:      90,
		CognitiveScore: 55,
		RecordedAt:     time.Now().UTC(),
	}
}
