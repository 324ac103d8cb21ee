package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkoutSchema is the top-level structure of a workout definition file.
// The same fields are accepted as JSON or YAML.
type WorkoutSchema struct {
	ID            string           `json:"id" yaml:"id"`
	Name          string           `json:"name" yaml:"name"`
	TotalDuration *float64         `json:"total_duration,omitempty" yaml:"total_duration,omitempty"`
	Exercises     []ExerciseImport `json:"exercises" yaml:"exercises"`
}

// ExerciseImport defines one timed exercise in the import file. Offsets and
// durations are seconds.
type ExerciseImport struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	StartOffset *float64 `json:"start_offset,omitempty" yaml:"start_offset,omitempty"`
	Duration    float64  `json:"duration" yaml:"duration"`
	Intensity   string   `json:"intensity,omitempty" yaml:"intensity,omitempty"`
}

// Format is the encoding of a workout file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported workout file extension %q (expected .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadWorkoutSchema reads and parses a workout definition file.
func LoadWorkoutSchema(path string) (*WorkoutSchema, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWorkoutSchema(data, format)
}

// ParseWorkoutSchema decodes a workout definition in the given format.
func ParseWorkoutSchema(data []byte, format Format) (*WorkoutSchema, error) {
	var schema WorkoutSchema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing workout file: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing workout file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown workout format %q", format)
	}
	return &schema, nil
}
