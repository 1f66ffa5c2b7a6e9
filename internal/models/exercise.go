package models

// ExerciseRecord is one row of the exercise dataset, loaded once and
// immutable for the catalog lifetime. The dataset may contain
// duplicates; no dedup is performed.
type ExerciseRecord struct {
	Title       string
	Description string
	Equipment   string
	Rating      string
	BodyPart    string
	Type        string
	Level       string
}

// Summary returns the plan-facing view of the record.
func (e ExerciseRecord) Summary() ExerciseSummary {
	return ExerciseSummary{
		Title:       e.Title,
		Description: e.Description,
		Equipment:   e.Equipment,
		Rating:      e.Rating,
	}
}
