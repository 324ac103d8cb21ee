package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS workouts (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		total_duration REAL NOT NULL CHECK(total_duration > 0),
		created_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS workout_exercises (
		workout_id   TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		id           TEXT NOT NULL,
		position     INTEGER NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		type         TEXT NOT NULL DEFAULT '',
		start_offset REAL NOT NULL CHECK(start_offset >= 0),
		duration     REAL NOT NULL CHECK(duration > 0),
		intensity    TEXT NOT NULL DEFAULT 'medium'
		             CHECK(intensity IN ('low','medium','high')),
		PRIMARY KEY (workout_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_position ON workout_exercises(workout_id, position)`,

	// One row per session: results are never overwritten by a later session.
	`CREATE TABLE IF NOT EXISTS session_results (
		session_id            TEXT PRIMARY KEY,
		workout_id            TEXT NOT NULL,
		user_id               TEXT NOT NULL DEFAULT '',
		total_elapsed         REAL NOT NULL,
		calories_estimate     REAL NOT NULL DEFAULT 0,
		final_cognitive_score REAL NOT NULL DEFAULT 0,
		status                TEXT NOT NULL DEFAULT 'completed'
		                      CHECK(status IN ('completed')),
		completed_at          TEXT NOT NULL,
		recorded_at           TEXT NOT NULL
	)`,

	`ALTER TABLE session_results ADD COLUMN final_heart_rate REAL NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_session_results_user ON session_results(user_id, completed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_session_results_workout ON session_results(workout_id)`,

	`CREATE TABLE IF NOT EXISTS neurofeedback_samples (
		id                  TEXT PRIMARY KEY,
		session_id          TEXT NOT NULL,
		workout_id          TEXT NOT NULL DEFAULT '',
		user_id             TEXT NOT NULL DEFAULT '',
		perceived_exertion  INTEGER NOT NULL CHECK(perceived_exertion BETWEEN 1 AND 10),
		cognitive_load      INTEGER NOT NULL CHECK(cognitive_load BETWEEN 1 AND 10),
		balance_stability   INTEGER NOT NULL CHECK(balance_stability BETWEEN 1 AND 10),
		coordination_rating INTEGER NOT NULL CHECK(coordination_rating BETWEEN 1 AND 10),
		notes               TEXT NOT NULL DEFAULT '',
		heart_rate          REAL NOT NULL DEFAULT 0,
		cognitive_score     REAL NOT NULL DEFAULT 0,
		recorded_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_session ON neurofeedback_samples(session_id)`,

	// Aggregate kept separately from session_results.
	`CREATE TABLE IF NOT EXISTS user_progress (
		user_id            TEXT PRIMARY KEY,
		completed_workouts INTEGER NOT NULL DEFAULT 0,
		activity_minutes   INTEGER NOT NULL DEFAULT 0,
		streak_days        INTEGER NOT NULL DEFAULT 0,
		last_completed_at  TEXT,
		updated_at         TEXT NOT NULL
	)`,

	`ALTER TABLE user_progress ADD COLUMN focus_score REAL NOT NULL DEFAULT 0`,
}
