package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
)

// SQLiteUserProgressRepo implements UserProgressRepo using a SQLite database.
type SQLiteUserProgressRepo struct {
	db db.DBTX
}

// NewSQLiteUserProgressRepo creates a new SQLiteUserProgressRepo.
func NewSQLiteUserProgressRepo(conn db.DBTX) *SQLiteUserProgressRepo {
	return &SQLiteUserProgressRepo{db: conn}
}

func (r *SQLiteUserProgressRepo) Get(ctx context.Context, userID string) (*domain.UserProgress, error) {
	query := `SELECT user_id, completed_workouts, activity_minutes, streak_days,
		focus_score, last_completed_at, updated_at
		FROM user_progress WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p domain.UserProgress
	var lastCompleted sql.NullString
	var updatedAt string
	err := row.Scan(
		&p.UserID,
		&p.CompletedWorkouts,
		&p.ActivityMinutes,
		&p.StreakDays,
		&p.FocusScore,
		&lastCompleted,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user progress: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user progress: %w", err)
	}
	p.LastCompletedAt = parseNullableTime(lastCompleted)
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLiteUserProgressRepo) Upsert(ctx context.Context, p *domain.UserProgress) error {
	query := `INSERT INTO user_progress (user_id, completed_workouts, activity_minutes,
		streak_days, focus_score, last_completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			completed_workouts = excluded.completed_workouts,
			activity_minutes   = excluded.activity_minutes,
			streak_days        = excluded.streak_days,
			focus_score        = excluded.focus_score,
			last_completed_at  = excluded.last_completed_at,
			updated_at         = excluded.updated_at`
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.CompletedWorkouts,
		p.ActivityMinutes,
		p.StreakDays,
		p.FocusScore,
		nullableTimeToString(p.LastCompletedAt),
		formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user progress: %w", err)
	}
	return nil
}
