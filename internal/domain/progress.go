package domain

import "time"

// UserProgress is the per-user aggregate derived from completed sessions.
// It is maintained next to the session results, never in place of them.
type UserProgress struct {
	UserID            string
	CompletedWorkouts int
	ActivityMinutes   int
	StreakDays        int
	FocusScore        float64
	LastCompletedAt   *time.Time
	UpdatedAt         time.Time
}

// ApplyResult folds one completed session into the aggregate. The streak
// grows when the previous completion was on the preceding calendar day (UTC),
// stays when it was the same day, and resets otherwise.
func (p *UserProgress) ApplyResult(r SessionResult) {
	day := r.CompletedAt.UTC().Truncate(24 * time.Hour)
	switch {
	case p.LastCompletedAt == nil:
		p.StreakDays = 1
	default:
		last := p.LastCompletedAt.UTC().Truncate(24 * time.Hour)
		switch day.Sub(last) {
		case 0:
			if p.StreakDays == 0 {
				p.StreakDays = 1
			}
		case 24 * time.Hour:
			p.StreakDays++
		default:
			if day.After(last) {
				p.StreakDays = 1
			}
		}
	}

	p.CompletedWorkouts++
	p.ActivityMinutes += r.ActivityMinutes()
	if p.CompletedWorkouts == 1 {
		p.FocusScore = r.FinalCognitiveScore
	} else {
		p.FocusScore = (p.FocusScore + r.FinalCognitiveScore) / 2
	}
	if p.LastCompletedAt == nil || r.CompletedAt.After(*p.LastCompletedAt) {
		at := r.CompletedAt
		p.LastCompletedAt = &at
	}
	p.UpdatedAt = time.Now().UTC()
}
