package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/repository"
)

type progressService struct {
	results  repository.SessionResultRepo
	progress repository.UserProgressRepo
	workouts repository.WorkoutRepo
	feedback repository.FeedbackRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(
	results repository.SessionResultRepo,
	progress repository.UserProgressRepo,
	workouts repository.WorkoutRepo,
	feedback repository.FeedbackRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProgressService {
	return &progressService{
		results:  results,
		progress: progress,
		workouts: workouts,
		feedback: feedback,
		uow:      uow,
		observer: combineObservers(observers),
	}
}

// RecordSessionResult stores the result under its session id and folds it
// into the user's aggregate in the same transaction. Recording a session that
// is already stored succeeds without touching the aggregate.
func (s *progressService) RecordSessionResult(ctx context.Context, r domain.SessionResult) (err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"session_id": r.SessionID,
		"workout_id": r.WorkoutID,
		"user_id":    r.UserID,
	}
	defer func() { observeUseCase(ctx, s.observer, UseCaseRecordResult, startedAt, fields, err) }()

	if r.SessionID == "" {
		return domain.AsPersistError("recording session result", domain.NewValidationError("session_id", "is required"))
	}
	if r.Status == "" {
		r.Status = domain.SessionCompleted
	}

	var inserted bool
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResults := repository.NewSQLiteSessionResultRepo(tx)
		txProgress := repository.NewSQLiteUserProgressRepo(tx)

		var err error
		inserted, err = txResults.Create(ctx, &r)
		if err != nil || !inserted {
			return err
		}

		p, err := txProgress.Get(ctx, r.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			p = &domain.UserProgress{UserID: r.UserID}
		} else if err != nil {
			return err
		}
		p.ApplyResult(r)
		return txProgress.Upsert(ctx, p)
	})
	fields["duplicate"] = err == nil && !inserted
	return domain.AsPersistError("recording session result", err)
}

// GetProgress returns the user's aggregate, or a zero aggregate when the user
// has not completed a session yet.
func (s *progressService) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	p, err := s.progress.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.UserProgress{UserID: userID}, nil
	}
	return p, err
}

// ListSessions returns the user's sessions from the last days days, newest
// first. days <= 0 lists everything.
func (s *progressService) ListSessions(ctx context.Context, userID string, days int) ([]*domain.SessionResult, error) {
	var since time.Time
	if days > 0 {
		since = time.Now().UTC().AddDate(0, 0, -days)
	}
	return s.results.ListByUser(ctx, userID, since)
}

func (s *progressService) GetSession(ctx context.Context, sessionID string) (*SessionDetail, error) {
	r, err := s.results.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	detail := &SessionDetail{Result: r}

	w, err := s.workouts.GetByID(ctx, r.WorkoutID)
	switch {
	case err == nil:
		detail.Workout = w
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("loading workout for session: %w", err)
	}

	if detail.Feedback, err = s.feedback.ListBySession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("loading feedback for session: %w", err)
	}
	return detail, nil
}
