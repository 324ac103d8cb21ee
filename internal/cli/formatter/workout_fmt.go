package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/neurofit/internal/domain"
)

// FormatWorkoutList renders the workout library as a boxed table.
func FormatWorkoutList(workouts []*domain.WorkoutDefinition) string {
	if len(workouts) == 0 {
		return Dim("No workouts yet. Import one with: neurofit workout import FILE") + "\n"
	}

	headers := []string{"ID", "NAME", "DURATION", "EXERCISES", "ADDED"}
	rows := make([][]string, 0, len(workouts))
	for _, w := range workouts {
		rows = append(rows, []string{
			Dim(w.ID),
			Bold(Truncate(w.Name, 40)),
			FormatClock(w.TotalDuration),
			fmt.Sprintf("%d", len(w.Exercises)),
			HumanDate(w.CreatedAt),
		})
	}
	table := RenderAlignedTable(headers, rows, []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft})
	return RenderBox("Workouts", table) + "\n"
}

// FormatWorkoutDetail renders one workout with its exercise schedule.
func FormatWorkoutDetail(w *domain.WorkoutDefinition) string {
	var b strings.Builder
	b.WriteString(Bold(w.Name) + "  " + Dim(w.ID) + "\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %d\n\n",
		Dim("Duration"), FormatClock(w.TotalDuration),
		Dim("Exercises"), len(w.Exercises)))

	if len(w.Exercises) == 0 {
		b.WriteString(Dim("No exercises. The whole session is open time.") + "\n")
		return RenderBox("Workout", b.String()) + "\n"
	}

	b.WriteString(RenderTimeline(*w, 0, 48) + "\n\n")

	headers := []string{"#", "START", "END", "EXERCISE", "TYPE", "INTENSITY"}
	rows := make([][]string, 0, len(w.Exercises))
	for i, ex := range w.Exercises {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			FormatClock(ex.StartOffset),
			FormatClock(ex.End()),
			ex.Name,
			Dim(ex.Type),
			IntensityBadge(ex.Intensity),
		})
	}
	b.WriteString(RenderAlignedTable(headers, rows, []Align{AlignRight, AlignRight, AlignRight}))
	return RenderBox("Workout", b.String()) + "\n"
}

// FormatImported confirms a workout import.
func FormatImported(w *domain.WorkoutDefinition) string {
	return fmt.Sprintf("%s Imported %s (%s, %d exercises) as %s\n",
		StyleGood.Render("✔"), Bold(w.Name), FormatClock(w.TotalDuration), len(w.Exercises), w.ID)
}
