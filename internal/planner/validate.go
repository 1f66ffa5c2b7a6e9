package planner

import (
	"strings"

	"github.com/claude/planfit/internal/models"
)

// ValidationError reports a malformed or out-of-range profile field.
// Recoverable: the caller re-prompts for the named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks raw profile input and returns a normalized Profile.
// Rules run in a fixed order and the first failure wins; callers get a
// single field-level error, not an aggregate.
func Validate(in models.ProfileInput) (models.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Profile{}, &ValidationError{Field: "name", Message: "Name cannot be empty"}
	}
	if in.Age < 13 || in.Age > 120 {
		return models.Profile{}, &ValidationError{Field: "age", Message: "Age must be between 13 and 120"}
	}
	height := strings.TrimSpace(in.Height)
	if height == "" {
		return models.Profile{}, &ValidationError{Field: "height", Message: "Height cannot be empty"}
	}
	if in.WeightLbs < 50 || in.WeightLbs > 500 {
		return models.Profile{}, &ValidationError{Field: "weight", Message: "Weight must be between 50 and 500 lbs"}
	}
	goal := models.Goal(in.Goal)
	if !goal.Valid() {
		return models.Profile{}, &ValidationError{Field: "exercise_goal", Message: "Invalid exercise goal"}
	}

	return models.Profile{
		Name:      name,
		Age:       in.Age,
		Height:    height,
		WeightLbs: in.WeightLbs,
		Goal:      goal,
		Injury:    NormalizeInjury(in.Injury),
	}, nil
}

// NormalizeInjury collapses empty, "none", and "n/a" (any casing,
// surrounding whitespace ignored) to the literal "None"; anything else
// is kept trimmed.
func NormalizeInjury(injury string) string {
	trimmed := strings.TrimSpace(injury)
	switch strings.ToLower(trimmed) {
	case "", "none", "n/a":
		return "None"
	}
	return trimmed
}
