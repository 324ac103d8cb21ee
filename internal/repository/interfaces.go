package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
)

type WorkoutRepo interface {
	Create(ctx context.Context, w *domain.WorkoutDefinition) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error)
	List(ctx context.Context) ([]*domain.WorkoutDefinition, error)
	Delete(ctx context.Context, id string) error
}

type SessionResultRepo interface {
	// Create inserts the result and reports whether a new row was written.
	// A second insert with the same session id is ignored.
	Create(ctx context.Context, r *domain.SessionResult) (bool, error)
	GetByID(ctx context.Context, sessionID string) (*domain.SessionResult, error)
	ListByUser(ctx context.Context, userID string, since time.Time) ([]*domain.SessionResult, error)
	ListByWorkout(ctx context.Context, workoutID string) ([]*domain.SessionResult, error)
}

type FeedbackRepo interface {
	Create(ctx context.Context, s *domain.NeurofeedbackSample) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.NeurofeedbackSample, error)
}

type UserProgressRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserProgress, error)
	Upsert(ctx context.Context, p *domain.UserProgress) error
}
