package catalog

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/planfit/internal/models"
)

// goalTypes maps a fitness goal to the dataset exercise types that
// serve it. Unknown goals fall back to Strength.
var goalTypes = map[models.Goal][]string{
	models.GoalWeightLoss:       {"Cardio", "Plyometrics"},
	models.GoalStrengthBuilding: {"Strength"},
	models.GoalCardio:           {"Cardio", "Plyometrics"},
}

var fallbackTypes = []string{"Strength"}

// Catalog is a read-only in-memory view over the exercise dataset.
// Dataset order is preserved; lookups truncate to the first matches in
// that order so regenerating a plan reproduces it exactly.
type Catalog struct {
	records []models.ExerciseRecord
}

// New builds a catalog from already-loaded records.
func New(records []models.ExerciseRecord) *Catalog {
	return &Catalog{records: records}
}

// Load reads the exercise dataset CSV at path. A missing or unreadable
// file degrades to an empty catalog rather than failing: every lookup
// then returns no matches and plans come out as all rest days.
func Load(path string, log *slog.Logger) *Catalog {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("exercise dataset unavailable, using empty catalog", "path", path, "error", err)
		return &Catalog{}
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		log.Warn("exercise dataset corrupt, using empty catalog", "path", path, "error", err)
		return &Catalog{}
	}
	log.Info("exercise dataset loaded", "path", path, "exercises", len(records))
	return &Catalog{records: records}
}

// Len returns the number of loaded exercise records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// PartExercises pairs a body part with its matched exercises. Lookup
// returns these in request order, already filtered to parts that
// matched, so day assignment can index them positionally.
type PartExercises struct {
	BodyPart  string
	Exercises []models.ExerciseSummary
}

// maxPerPart caps how many exercises a single day can carry.
const maxPerPart = 5

// Lookup selects up to five exercises per requested body part whose
// type serves the goal and whose level equals the difficulty. Body
// parts with zero matches are omitted entirely; the remaining entries
// keep the order of bodyParts.
func (c *Catalog) Lookup(goal models.Goal, bodyParts []string, level models.Difficulty) []PartExercises {
	types, ok := goalTypes[goal]
	if !ok {
		types = fallbackTypes
	}

	var out []PartExercises
	for _, part := range bodyParts {
		var matched []models.ExerciseSummary
		for _, rec := range c.records {
			if rec.Title == "" || rec.BodyPart != part || rec.Level != string(level) {
				continue
			}
			if !containsType(types, rec.Type) {
				continue
			}
			matched = append(matched, rec.Summary())
			if len(matched) == maxPerPart {
				break
			}
		}
		if len(matched) > 0 {
			out = append(out, PartExercises{BodyPart: part, Exercises: matched})
		}
	}
	return out
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// parse reads the dataset CSV. The header row names the columns; rows
// with too few fields get empty values rather than aborting the load.
func parse(r io.Reader) ([]models.ExerciseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []models.ExerciseRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := models.ExerciseRecord{
			Title:       field(row, "Title"),
			Description: field(row, "Desc"),
			Equipment:   field(row, "Equipment"),
			Rating:      field(row, "Rating"),
			BodyPart:    field(row, "BodyPart"),
			Type:        field(row, "Type"),
			Level:       field(row, "Level"),
		}
		if rec.Description == "" {
			rec.Description = "No description"
		}
		if rec.Equipment == "" {
			rec.Equipment = "Bodyweight"
		}
		if rec.Rating == "" {
			rec.Rating = "N/A"
		}
		records = append(records, rec)
	}
	return records, nil
}
