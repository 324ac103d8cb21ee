package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated WorkoutSchema into a normalized workout
// definition. A missing id gets a fresh UUID and a missing total duration
// becomes the end of the last exercise.
// Call ValidateWorkoutSchema first; Convert still re-checks the result.
func Convert(schema *WorkoutSchema) (*domain.WorkoutDefinition, error) {
	id := schema.ID
	if id == "" {
		id = uuid.New().String()
	}

	spans := resolveOffsets(schema.Exercises)
	exercises := make([]domain.Exercise, 0, len(schema.Exercises))
	var lastEnd float64
	for i, ex := range schema.Exercises {
		intensity := domain.Intensity(ex.Intensity)
		if intensity == "" {
			intensity = domain.IntensityMedium
		}
		exercises = append(exercises, domain.Exercise{
			ID:          ex.ID,
			Name:        ex.Name,
			Type:        ex.Type,
			StartOffset: spans[i].start,
			Duration:    spans[i].duration,
			Intensity:   intensity,
		})
		lastEnd = max(lastEnd, spans[i].end())
	}

	total := lastEnd
	if schema.TotalDuration != nil {
		total = *schema.TotalDuration
	}

	w := &domain.WorkoutDefinition{
		ID:            id,
		Name:          schema.Name,
		TotalDuration: total,
		Exercises:     exercises,
		CreatedAt:     time.Now().UTC(),
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("converting workout %q: %w", schema.Name, err)
	}
	return w, nil
}

// LoadWorkout reads, validates and converts a workout file in one step.
// Validation problems are joined into a single error.
func LoadWorkout(path string) (*domain.WorkoutDefinition, error) {
	schema, err := LoadWorkoutSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateWorkoutSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, errors.Join(errs...))
	}
	return Convert(schema)
}
