package service

import (
	"context"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/repository"
	"github.com/google/uuid"
)

type feedbackService struct {
	feedback repository.FeedbackRepo
	observer UseCaseObserver
}

func NewFeedbackService(feedback repository.FeedbackRepo, observers ...UseCaseObserver) FeedbackService {
	return &feedbackService{
		feedback: feedback,
		observer: combineObservers(observers),
	}
}

func (s *feedbackService) Submit(ctx context.Context, sample domain.NeurofeedbackSample) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sample.SessionID}
	defer func() { observeUseCase(ctx, s.observer, UseCaseSubmitFeedback, startedAt, fields, err) }()

	if sample.SessionID == "" {
		return domain.NewValidationError("session_id", "is required")
	}
	if err = sample.Ratings.Validate(); err != nil {
		return err
	}
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now().UTC()
	}
	return s.feedback.Create(ctx, &sample)
}

func (s *feedbackService) ListBySession(ctx context.Context, sessionID string) ([]*domain.NeurofeedbackSample, error) {
	return s.feedback.ListBySession(ctx, sessionID)
}
