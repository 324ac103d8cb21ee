package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/neurofit/internal/db"
	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/importer"
	"github.com/alexanderramin/neurofit/internal/repository"
)

type workoutService struct {
	workouts repository.WorkoutRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewWorkoutService(workouts repository.WorkoutRepo, uow db.UnitOfWork, observers ...UseCaseObserver) WorkoutService {
	return &workoutService{
		workouts: workouts,
		uow:      uow,
		observer: combineObservers(observers),
	}
}

func (s *workoutService) Import(ctx context.Context, filePath string) (*domain.WorkoutDefinition, error) {
	schema, err := importer.LoadWorkoutSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading workout file: %w", err)
	}
	return s.ImportFromSchema(ctx, schema)
}

func (s *workoutService) ImportFromSchema(ctx context.Context, schema *importer.WorkoutSchema) (w *domain.WorkoutDefinition, err error) {
	startedAt := time.Now()
	fields := map[string]any{"workout": schema.Name}
	defer func() { observeUseCase(ctx, s.observer, UseCaseImportWorkout, startedAt, fields, err) }()

	if errs := importer.ValidateWorkoutSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	w, err = importer.Convert(schema)
	if err != nil {
		return nil, err
	}
	fields["workout_id"] = w.ID
	fields["exercise_count"] = len(w.Exercises)

	// Workout and exercises land together or not at all.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteWorkoutRepo(tx).Create(ctx, w); err != nil {
			return fmt.Errorf("creating workout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workoutService) GetByID(ctx context.Context, id string) (*domain.WorkoutDefinition, error) {
	return s.workouts.GetByID(ctx, id)
}

func (s *workoutService) List(ctx context.Context) ([]*domain.WorkoutDefinition, error) {
	return s.workouts.List(ctx)
}

func (s *workoutService) Delete(ctx context.Context, id string) error {
	return s.workouts.Delete(ctx, id)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("workout validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &domain.ValidationError{Field: "workout", Reason: msg}
}
