package models

// Difficulty gates which dataset rows qualify for a plan.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyExpert       Difficulty = "Expert"
)

// ExerciseSummary is the subset of an ExerciseRecord that appears in a
// generated plan.
type ExerciseSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Equipment   string `json:"equipment"`
	Rating      string `json:"rating"`
}

// DayPlan is one day of a weekly schedule. Exercises is empty (never
// nil) on rest days so the serialized form round-trips as [].
type DayPlan struct {
	Day       string            `json:"day"`
	Focus     string            `json:"focus"`
	Exercises []ExerciseSummary `json:"exercises"`
}

// WeeklyPlan is a generated seven-day schedule. It is derived
// deterministically from a Profile and the catalog contents: the same
// inputs always produce an identical plan.
type WeeklyPlan struct {
	UserName   string     `json:"user_name"`
	Goal       Goal       `json:"goal"`
	Difficulty Difficulty `json:"difficulty"`
	Frequency  string     `json:"frequency"`
	Schedule   []DayPlan  `json:"weekly_schedule"`
	InjuryNote string     `json:"injury_modifications,omitempty"`
}
