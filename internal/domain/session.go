package domain

import "time"

// SessionState is a point-in-time view of a running session.
type SessionState struct {
	Phase            Phase
	Elapsed          float64
	TotalDuration    float64
	IsRunning        bool
	PlaybackRate     float64
	ActiveExerciseID string
	HeartRate        float64
	CognitiveScore   float64
	Completed        bool
	Warning          string
}

// Progress returns elapsed as a fraction of the total duration.
func (s SessionState) Progress() float64 {
	if s.TotalDuration <= 0 {
		return 0
	}
	return s.Elapsed / s.TotalDuration
}

// SessionResult is the record emitted exactly once when a session completes.
type SessionResult struct {
	SessionID           string
	WorkoutID           string
	UserID              string
	TotalElapsed        float64
	CaloriesEstimate    float64
	FinalCognitiveScore float64
	FinalHeartRate      float64
	Status              SessionStatus
	CompletedAt         time.Time
}

// ActivityMinutes returns the elapsed time rounded down to whole minutes.
func (r SessionResult) ActivityMinutes() int {
	return int(r.TotalElapsed / 60)
}

// FeedbackRatings are the subjective scores a user gives after a session.
type FeedbackRatings struct {
	PerceivedExertion  int
	CognitiveLoad      int
	BalanceStability   int
	CoordinationRating int
	Notes              string
}

// DefaultFeedbackRatings returns the ratings pre-filled in the feedback form.
func DefaultFeedbackRatings() FeedbackRatings {
	return FeedbackRatings{
		PerceivedExertion:  7,
		CognitiveLoad:      6,
		BalanceStability:   8,
		CoordinationRating: 7,
	}
}

// Validate checks every rating is within 1..10.
func (f FeedbackRatings) Validate() error {
	checks := []struct {
		field string
		v     int
	}{
		{"perceived_exertion", f.PerceivedExertion},
		{"cognitive_load", f.CognitiveLoad},
		{"balance_stability", f.BalanceStability},
		{"coordination_rating", f.CoordinationRating},
	}
	for _, c := range checks {
		if c.v < 1 || c.v > 10 {
			return NewValidationError(c.field, "must be between 1 and 10, got %d", c.v)
		}
	}
	return nil
}

// NeurofeedbackSample pairs subjective ratings with the simulated signals at
// the end of a session.
type NeurofeedbackSample struct {
	ID             string
	SessionID      string
	WorkoutID      string
	UserID         string
	Ratings        FeedbackRatings
	HeartRate      float64
	CognitiveScore float64
	RecordedAt     time.Time
}
