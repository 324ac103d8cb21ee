package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/neurofit/internal/domain"
)

// FormatUserProgress renders the per-user aggregate.
func FormatUserProgress(p *domain.UserProgress) string {
	if p.CompletedWorkouts == 0 {
		return Dim(fmt.Sprintf("No completed sessions for %s yet. Start one with: neurofit session play WORKOUT_ID", p.UserID)) + "\n"
	}

	var b strings.Builder
	b.WriteString(Bold(p.UserID) + "\n\n")

	streak := fmt.Sprintf("%d day", p.StreakDays)
	if p.StreakDays != 1 {
		streak += "s"
	}
	last := "-"
	if p.LastCompletedAt != nil {
		last = HumanTimestamp(*p.LastCompletedAt)
	}

	kv := [][2]string{
		{"Workouts", fmt.Sprintf("%d", p.CompletedWorkouts)},
		{"Active time", FormatMinutes(p.ActivityMinutes)},
		{"Streak", StyleWarn.Render(streak)},
		{"Focus score", RenderProgress(p.FocusScore/100, 20)},
		{"Last session", last},
	}
	for _, row := range kv {
		b.WriteString(PadRight(Dim(row[0]), 14) + " " + row[1] + "\n")
	}
	return RenderBox("Progress", b.String()) + "\n"
}
