package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
)

// FormatSessionList renders completed sessions newest first.
func FormatSessionList(results []*domain.SessionResult, workoutNames map[string]string) string {
	if len(results) == 0 {
		return "No sessions found.\n"
	}

	headers := []string{"ID", "WORKOUT", "COMPLETED", "TIME", "KCAL", "FOCUS"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		name := workoutNames[r.WorkoutID]
		if name == "" {
			name = Dim(r.WorkoutID)
		}
		rows = append(rows, []string{
			TruncID(r.SessionID),
			Truncate(name, 32),
			HumanTimestamp(r.CompletedAt),
			FormatClock(r.TotalElapsed),
			fmt.Sprintf("%.0f", r.CaloriesEstimate),
			fmt.Sprintf("%.0f", r.FinalCognitiveScore),
		})
	}
	table := RenderAlignedTable(headers, rows, []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight})
	return RenderBox("Sessions", table) + "\n"
}

// FormatSessionResult renders the summary of one finished session. workout
// may be nil when the definition is no longer in the library.
func FormatSessionResult(r *domain.SessionResult, workout *domain.WorkoutDefinition, feedback []*domain.NeurofeedbackSample) string {
	var b strings.Builder

	title := r.WorkoutID
	if workout != nil {
		title = workout.Name
	}
	b.WriteString(Bold(title) + "  " + Dim(r.SessionID) + "\n\n")

	kv := [][2]string{
		{"Completed", r.CompletedAt.Local().Format("Jan 2, 2006 15:04")},
		{"Active time", FormatClock(r.TotalElapsed)},
		{"Calories", fmt.Sprintf("%.1f kcal", r.CaloriesEstimate)},
		{"Heart rate", fmt.Sprintf("%.0f bpm", r.FinalHeartRate)},
		{"Cognitive score", fmt.Sprintf("%.1f / 100", r.FinalCognitiveScore)},
	}
	for _, row := range kv {
		b.WriteString(PadRight(Dim(row[0]), 16) + " " + row[1] + "\n")
	}

	for _, s := range feedback {
		b.WriteString("\n" + Header("Neurofeedback") + "\n")
		b.WriteString(FormatFeedback(s.Ratings))
	}
	return RenderBox("Session", b.String()) + "\n"
}

// FormatFeedback renders the four ratings as short bars plus any notes.
func FormatFeedback(f domain.FeedbackRatings) string {
	var b strings.Builder
	rows := []struct {
		label string
		v     int
	}{
		{"Exertion", f.PerceivedExertion},
		{"Cognitive load", f.CognitiveLoad},
		{"Balance", f.BalanceStability},
		{"Coordination", f.CoordinationRating},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s %s %2d\n", PadRight(Dim(r.label), 16), RenderProgress(float64(r.v)/10, 10), r.v))
	}
	if f.Notes != "" {
		b.WriteString(Dim("Notes") + "  " + f.Notes + "\n")
	}
	return b.String()
}

// FormatStateLine renders a single plain-text status line for headless play.
func FormatStateLine(s domain.SessionState, exerciseName string) string {
	active := exerciseName
	if active == "" {
		active = "-"
	}
	line := fmt.Sprintf("%s/%s %5.1f%%  %-10s  exercise=%s  hr=%.0f  cog=%.1f  rate=%s",
		FormatClock(s.Elapsed), FormatClock(s.TotalDuration), s.Progress()*100,
		s.Phase, active, s.HeartRate, s.CognitiveScore, FormatRate(s.PlaybackRate))
	if s.Warning != "" {
		line += "  warning=" + s.Warning
	}
	return line
}

// FormatCompletion renders the end-of-session banner.
func FormatCompletion(r domain.SessionResult, persistErr error) string {
	var b strings.Builder
	b.WriteString(StyleDone.Render("✔ Session complete") + "\n")
	b.WriteString(fmt.Sprintf("  %s %s   %s %.1f kcal   %s %.1f\n",
		Dim("time"), FormatClock(r.TotalElapsed),
		Dim("calories"), r.CaloriesEstimate,
		Dim("focus"), r.FinalCognitiveScore))
	if persistErr != nil {
		b.WriteString(StyleWarn.Render("  ! progress not saved: "+persistErr.Error()) + "\n")
	} else {
		b.WriteString(Dim("  progress saved "+r.CompletedAt.Local().Format(time.Kitchen)) + "\n")
	}
	return b.String()
}
