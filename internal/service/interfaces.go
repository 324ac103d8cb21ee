package service

import (
	"context"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/importer"
)

type WorkoutService interface {
	Import(ctx context.Context, filePath string) (*domain.WorkoutDefinition, error)
	ImportFromSchema(ctx context.Context, schema *importer.WorkoutSchema) (*domain.WorkoutDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error)
	List(ctx context.Context) ([]*domain.WorkoutDefinition, error)
	Delete(ctx context.Context, id string) error
}

// ProgressService records completed sessions and answers progress queries.
// It satisfies player.ProgressStore.
type ProgressService interface {
	RecordSessionResult(ctx context.Context, r domain.SessionResult) error
	GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
	ListSessions(ctx context.Context, userID string, days int) ([]*domain.SessionResult, error)
	GetSession(ctx context.Context, sessionID string) (*SessionDetail, error)
}

// FeedbackService stores post-session neurofeedback. It satisfies
// player.FeedbackSink.
type FeedbackService interface {
	Submit(ctx context.Context, s domain.NeurofeedbackSample) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.NeurofeedbackSample, error)
}

// SessionDetail is one stored session with its feedback.
type SessionDetail struct {
	Result   *domain.SessionResult
	Workout  *domain.WorkoutDefinition // nil when the workout was deleted
	Feedback []*domain.NeurofeedbackSample
}
