package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
)

const sessionResultColumns = `session_id, workout_id, user_id, total_elapsed, calories_estimate,
	final_cognitive_score, final_heart_rate, status, completed_at`

// SQLiteSessionResultRepo implements SessionResultRepo using a SQLite database.
type SQLiteSessionResultRepo struct {
	db db.DBTX
}

// NewSQLiteSessionResultRepo creates a new SQLiteSessionResultRepo.
func NewSQLiteSessionResultRepo(conn db.DBTX) *SQLiteSessionResultRepo {
	return &SQLiteSessionResultRepo{db: conn}
}

func (r *SQLiteSessionResultRepo) Create(ctx context.Context, s *domain.SessionResult) (bool, error) {
	status := s.Status
	if status == "" {
		status = domain.SessionCompleted
	}
	query := `INSERT INTO session_results (` + sessionResultColumns + `, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		s.SessionID,
		s.WorkoutID,
		s.UserID,
		s.TotalElapsed,
		s.CaloriesEstimate,
		s.FinalCognitiveScore,
		s.FinalHeartRate,
		string(status),
		formatTime(s.CompletedAt),
		nowUTC(),
	)
	if err != nil {
		return false, fmt.Errorf("inserting session result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking inserted session result: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteSessionResultRepo) GetByID(ctx context.Context, sessionID string) (*domain.SessionResult, error) {
	query := `SELECT ` + sessionResultColumns + ` FROM session_results WHERE session_id = ?`
	row := r.db.QueryRowContext(ctx, query, sessionID)
	s, err := scanSessionResult(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session result: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

// ListByUser returns the user's results completed at or after since, newest first.
func (r *SQLiteSessionResultRepo) ListByUser(ctx context.Context, userID string, since time.Time) ([]*domain.SessionResult, error) {
	query := `SELECT ` + sessionResultColumns + ` FROM session_results
		WHERE user_id = ? AND completed_at >= ?
		ORDER BY completed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing session results by user: %w", err)
	}
	defer rows.Close()
	return scanSessionResults(rows)
}

func (r *SQLiteSessionResultRepo) ListByWorkout(ctx context.Context, workoutID string) ([]*domain.SessionResult, error) {
	query := `SELECT ` + sessionResultColumns + ` FROM session_results
		WHERE workout_id = ? ORDER BY completed_at DESC`
	rows, err := r.db.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, fmt.Errorf("listing session results by workout: %w", err)
	}
	defer rows.Close()
	return scanSessionResults(rows)
}

func scanSessionResults(rows *sql.Rows) ([]*domain.SessionResult, error) {
	var results []*domain.SessionResult
	for rows.Next() {
		s, err := scanSessionResult(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session results: %w", err)
	}
	return results, nil
}

// scanSessionResult reads one row through the given Scan func so it serves
// both *sql.Row and *sql.Rows. sql.ErrNoRows is returned unwrapped.
func scanSessionResult(scan func(dest ...any) error) (*domain.SessionResult, error) {
	var s domain.SessionResult
	var status, completedAt string
	err := scan(
		&s.SessionID, &s.WorkoutID, &s.UserID, &s.TotalElapsed, &s.CaloriesEstimate,
		&s.FinalCognitiveScore, &s.FinalHeartRate, &status, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session result: %w", err)
	}
	s.Status = domain.SessionStatus(status)
	if s.CompletedAt, err = parseTime(completedAt); err != nil {
		return nil, fmt.Errorf("parsing completed_at: %w", err)
	}
	return &s, nil
}
