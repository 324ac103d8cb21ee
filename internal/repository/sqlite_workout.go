package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
)

// SQLiteWorkoutRepo implements WorkoutRepo using a SQLite database.
// Exercises live in workout_exercises and are written with their parent.
type SQLiteWorkoutRepo struct {
	db db.DBTX
}

// NewSQLiteWorkoutRepo creates a new SQLiteWorkoutRepo.
func NewSQLiteWorkoutRepo(conn db.DBTX) *SQLiteWorkoutRepo {
	return &SQLiteWorkoutRepo{db: conn}
}

// Create inserts the workout and its exercises. Callers wanting atomicity
// construct the repo on a transaction.
func (r *SQLiteWorkoutRepo) Create(ctx context.Context, w *domain.WorkoutDefinition) error {
	query := `INSERT INTO workouts (id, name, total_duration, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.Name, w.TotalDuration, formatTime(w.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("workout %q: %w", w.ID, ErrDuplicate)
		}
		return fmt.Errorf("inserting workout: %w", err)
	}

	exQuery := `INSERT INTO workout_exercises
		(workout_id, id, position, name, type, start_offset, duration, intensity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, ex := range w.Exercises {
		intensity := ex.Intensity
		if intensity == "" {
			intensity = domain.IntensityMedium
		}
		_, err := r.db.ExecContext(ctx, exQuery,
			w.ID, ex.ID, i, ex.Name, ex.Type, ex.StartOffset, ex.Duration, string(intensity),
		)
		if err != nil {
			return fmt.Errorf("inserting exercise %q: %w", ex.ID, err)
		}
	}
	return nil
}

func (r *SQLiteWorkoutRepo) GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error) {
	query := `SELECT id, name, total_duration, created_at FROM workouts WHERE id = ?`
	w, err := r.scanWorkout(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	exercises, err := r.listExercises(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Exercises = exercises
	return w, nil
}

// List returns every workout with its exercises, ordered by name.
func (r *SQLiteWorkoutRepo) List(ctx context.Context) ([]*domain.WorkoutDefinition, error) {
	query := `SELECT id, name, total_duration, created_at FROM workouts ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}

	var workouts []*domain.WorkoutDefinition
	for rows.Next() {
		var w domain.WorkoutDefinition
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Name, &w.TotalDuration, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning workout row: %w", err)
		}
		if w.CreatedAt, err = parseTime(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		workouts = append(workouts, &w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating workouts: %w", err)
	}
	// Close before the per-workout queries: an in-memory store has one connection.
	rows.Close()

	for _, w := range workouts {
		if w.Exercises, err = r.listExercises(ctx, w.ID); err != nil {
			return nil, err
		}
	}
	return workouts, nil
}

func (r *SQLiteWorkoutRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkoutRepo) scanWorkout(row *sql.Row) (*domain.WorkoutDefinition, error) {
	var w domain.WorkoutDefinition
	var createdAt string
	if err := row.Scan(&w.ID, &w.Name, &w.TotalDuration, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workout: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning workout: %w", err)
	}
	var err error
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &w, nil
}

func (r *SQLiteWorkoutRepo) listExercises(ctx context.Context, workoutID string) ([]domain.Exercise, error) {
	query := `SELECT id, name, type, start_offset, duration, intensity
		FROM workout_exercises WHERE workout_id = ? ORDER BY start_offset, position`
	rows, err := r.db.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var ex domain.Exercise
		var intensity string
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Type, &ex.StartOffset, &ex.Duration, &intensity); err != nil {
			return nil, fmt.Errorf("scanning exercise row: %w", err)
		}
		ex.Intensity = domain.Intensity(intensity)
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exercises: %w", err)
	}
	return exercises, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
