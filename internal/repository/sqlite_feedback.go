package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
)

// SQLiteFeedbackRepo implements FeedbackRepo using a SQLite database.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

// NewSQLiteFeedbackRepo creates a new SQLiteFeedbackRepo.
func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

func (r *SQLiteFeedbackRepo) Create(ctx context.Context, s *domain.NeurofeedbackSample) error {
	query := `INSERT INTO neurofeedback_samples (id, session_id, workout_id, user_id,
		perceived_exertion, cognitive_load, balance_stability, coordination_rating,
		notes, heart_rate, cognitive_score, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SessionID,
		s.WorkoutID,
		s.UserID,
		s.Ratings.PerceivedExertion,
		s.Ratings.CognitiveLoad,
		s.Ratings.BalanceStability,
		s.Ratings.CoordinationRating,
		s.Ratings.Notes,
		s.HeartRate,
		s.CognitiveScore,
		formatTime(s.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting neurofeedback sample: %w", err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.NeurofeedbackSample, error) {
	query := `SELECT id, session_id, workout_id, user_id,
		perceived_exertion, cognitive_load, balance_stability, coordination_rating,
		notes, heart_rate, cognitive_score, recorded_at
		FROM neurofeedback_samples WHERE session_id = ? ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing neurofeedback samples: %w", err)
	}
	defer rows.Close()

	var samples []*domain.NeurofeedbackSample
	for rows.Next() {
		var s domain.NeurofeedbackSample
		var recordedAt string
		err := rows.Scan(
			&s.ID, &s.SessionID, &s.WorkoutID, &s.UserID,
			&s.Ratings.PerceivedExertion, &s.Ratings.CognitiveLoad,
			&s.Ratings.BalanceStability, &s.Ratings.CoordinationRating,
			&s.Ratings.Notes, &s.HeartRate, &s.CognitiveScore, &recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning neurofeedback sample: %w", err)
		}
		if s.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}
		samples = append(samples, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating neurofeedback samples: %w", err)
	}
	return samples, nil
}
