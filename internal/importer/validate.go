package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/neurofit/internal/domain"
)

// ValidateWorkoutSchema checks the schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateWorkoutSchema(schema *WorkoutSchema) []error {
	var errs []error

	if schema.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if schema.TotalDuration != nil && !positive(*schema.TotalDuration) {
		errs = append(errs, fmt.Errorf("total_duration must be positive, got %v", *schema.TotalDuration))
	}
	if schema.TotalDuration == nil && len(schema.Exercises) == 0 {
		errs = append(errs, fmt.Errorf("total_duration is required when there are no exercises"))
	}

	errs = append(errs, validateExercises(schema)...)
	return errs
}

func validateExercises(schema *WorkoutSchema) []error {
	var errs []error
	ids := make(map[string]bool)

	for i, ex := range schema.Exercises {
		prefix := fmt.Sprintf("exercises[%d]", i)

		if ex.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[ex.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, ex.ID))
		} else {
			ids[ex.ID] = true
		}

		if ex.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if ex.Type != "" && !domain.ValidExerciseTypes[ex.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, ex.Type))
		}
		if ex.Intensity != "" && !domain.ValidIntensities[ex.Intensity] {
			errs = append(errs, fmt.Errorf("%s.intensity: invalid value %q", prefix, ex.Intensity))
		}
		if ex.StartOffset != nil && (math.IsNaN(*ex.StartOffset) || math.IsInf(*ex.StartOffset, 0) || *ex.StartOffset < 0) {
			errs = append(errs, fmt.Errorf("%s.start_offset must be >= 0, got %v", prefix, *ex.StartOffset))
		}
		if !positive(ex.Duration) {
			errs = append(errs, fmt.Errorf("%s.duration must be positive, got %v", prefix, ex.Duration))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return validateTimeline(schema)
}

// validateTimeline checks the resolved layout: no overlaps and nothing past
// the declared total. Only meaningful once every exercise is well formed.
func validateTimeline(schema *WorkoutSchema) []error {
	var errs []error
	spans := resolveOffsets(schema.Exercises)
	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return spans[order[a]].start < spans[order[b]].start
	})

	for k := 1; k < len(order); k++ {
		prev, cur := order[k-1], order[k]
		if spans[cur].start < spans[prev].end() {
			errs = append(errs, fmt.Errorf("exercises[%d] %q overlaps exercises[%d] %q",
				cur, schema.Exercises[cur].ID, prev, schema.Exercises[prev].ID))
		}
	}
	if schema.TotalDuration != nil {
		for i, s := range spans {
			if s.end() > *schema.TotalDuration {
				errs = append(errs, fmt.Errorf("exercises[%d] %q ends at %v, past total_duration %v",
					i, schema.Exercises[i].ID, s.end(), *schema.TotalDuration))
			}
		}
	}
	return errs
}

type span struct {
	start    float64
	duration float64
}

func (s span) end() float64 { return s.start + s.duration }

// resolveOffsets fills missing start offsets by placing the exercise directly
// after the previous one in file order.
func resolveOffsets(exercises []ExerciseImport) []span {
	spans := make([]span, len(exercises))
	cursor := 0.0
	for i, ex := range exercises {
		start := cursor
		if ex.StartOffset != nil {
			start = *ex.StartOffset
		}
		spans[i] = span{start: start, duration: ex.Duration}
		cursor = spans[i].end()
	}
	return spans
}

func positive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
