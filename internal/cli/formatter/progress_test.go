package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func timelineWorkout() domain.WorkoutDefinition {
	return domain.WorkoutDefinition{
		ID:            "wk",
		Name:          "Timeline",
		TotalDuration: 100,
		Exercises: []domain.Exercise{
			{ID: "a", StartOffset: 0, Duration: 40, Intensity: domain.IntensityLow},
			{ID: "b", StartOffset: 60, Duration: 40, Intensity: domain.IntensityHigh},
		},
	}
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{"empty", 0, "[░░░░░░░░░░]   0%"},
		{"half", 0.5, "[█████░░░░░]  50%"},
		{"full", 1, "[██████████] 100%"},
		{"over clamps", 1.5, "[██████████] 100%"},
		{"negative clamps", -0.5, "[░░░░░░░░░░]   0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderProgress(tt.pct, 10)))
		})
	}
}

func TestRenderTimeline_GapsAndElapsed(t *testing.T) {
	out := stripANSI(RenderTimeline(timelineWorkout(), 50, 10))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "████··░░░░", lines[0])
	assert.Equal(t, "     ▲", lines[1])
}

func TestRenderTimeline_EndCursorStaysInside(t *testing.T) {
	out := stripANSI(RenderTimeline(timelineWorkout(), 100, 10))
	lines := strings.Split(out, "\n")
	assert.Equal(t, "████··████", lines[0])
	assert.Equal(t, "         ▲", lines[1])
}

func TestFormatStateLine(t *testing.T) {
	s := domain.SessionState{
		Phase:          domain.PhaseRunning,
		Elapsed:        90,
		TotalDuration:  1200,
		PlaybackRate:   2,
		HeartRate:      74,
		CognitiveScore: 40,
	}
	line := FormatStateLine(s, "Warm-up")
	assert.Equal(t, "1:30/20:00   7.5%  running     exercise=Warm-up  hr=74  cog=40.0  rate=2x", line)

	s.Warning = "progress not saved: offline"
	assert.Contains(t, FormatStateLine(s, ""), "exercise=-")
	assert.Contains(t, FormatStateLine(s, ""), "warning=progress not saved: offline")
}

func TestFormatCompletion(t *testing.T) {
	r := domain.SessionResult{TotalElapsed: 1200, CaloriesEstimate: 100, FinalCognitiveScore: 52.5, CompletedAt: time.Now()}

	ok := stripANSI(FormatCompletion(r, nil))
	assert.Contains(t, ok, "Session complete")
	assert.Contains(t, ok, "20:00")
	assert.Contains(t, ok, "100.0 kcal")
	assert.Contains(t, ok, "progress saved")

	failed := stripANSI(FormatCompletion(r, errors.New("db locked")))
	assert.Contains(t, failed, "progress not saved: db locked")
}

func TestFormatUserProgress(t *testing.T) {
	empty := stripANSI(FormatUserProgress(&domain.UserProgress{UserID: "ada"}))
	assert.Contains(t, empty, "No completed sessions for ada")

	last := time.Now().Add(-2 * time.Hour)
	out := stripANSI(FormatUserProgress(&domain.UserProgress{
		UserID:            "ada",
		CompletedWorkouts: 3,
		ActivityMinutes:   75,
		StreakDays:        1,
		FocusScore:        50,
		LastCompletedAt:   &last,
	}))
	assert.Contains(t, out, "PROGRESS")
	assert.Contains(t, out, "1h 15m")
	assert.Contains(t, out, "1 day")
	assert.NotContains(t, out, "1 days")
	assert.Contains(t, out, "2h ago")
}

func TestFormatWorkoutDetailAndList(t *testing.T) {
	w := timelineWorkout()
	w.Exercises[0].Name = "Reach"
	w.Exercises[1].Name = "Step"

	detail := stripANSI(FormatWorkoutDetail(&w))
	assert.Contains(t, detail, "Timeline")
	assert.Contains(t, detail, "Reach")
	assert.Contains(t, detail, "▲ HIGH")
	assert.Contains(t, detail, "1:40")

	list := stripANSI(FormatWorkoutList([]*domain.WorkoutDefinition{&w}))
	assert.Contains(t, list, "WORKOUTS")
	assert.Contains(t, list, "1:40")

	assert.Contains(t, FormatWorkoutList(nil), "No workouts yet")
}

func TestFormatSessionResult_WithFeedback(t *testing.T) {
	r := &domain.SessionResult{SessionID: "sess-1", WorkoutID: "gone", TotalElapsed: 600, FinalHeartRate: 88}
	fb := []*domain.NeurofeedbackSample{{Ratings: domain.FeedbackRatings{
		PerceivedExertion: 7, CognitiveLoad: 6, BalanceStability: 8, CoordinationRating: 7, Notes: "steady",
	}}}

	out := stripANSI(FormatSessionResult(r, nil, fb))
	assert.Contains(t, out, "gone")
	assert.Contains(t, out, "88 bpm")
	assert.Contains(t, out, "NEUROFEEDBACK")
	assert.Contains(t, out, "steady")
}
