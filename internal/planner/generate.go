package planner

import (
	"fmt"

	"github.com/claude/planfit/internal/catalog"
	"github.com/claude/planfit/internal/models"
)

// goalBodyParts maps a goal to the body parts targeted across the
// week, in day-slot order.
var goalBodyParts = map[models.Goal][]string{
	models.GoalWeightLoss:       {"Abdominals", "Legs", "Back", "Chest"},
	models.GoalStrengthBuilding: {"Back", "Chest", "Legs", "Abdominals"},
	models.GoalCardio:           {"Abdominals", "Legs", "Cardiovascular"},
}

var fallbackBodyParts = []string{"Abdominals", "Chest", "Back"}

// goalFrequency maps a goal to its recommended weekly frequency label.
var goalFrequency = map[models.Goal]string{
	models.GoalWeightLoss:       "5-6 days per week",
	models.GoalStrengthBuilding: "4-5 days per week",
	models.GoalCardio:           "4-6 days per week",
}

const defaultFrequency = "4-5 days per week"

// weekDays is the schedule order. Monday, Tuesday, Thursday, and
// Friday are training slots filled positionally from the catalog
// matches; the other three are fixed recovery days.
var weekDays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var recoveryFocus = map[string]string{
	"Wednesday": "Rest or Light Cardio",
	"Saturday":  "Active Recovery or Light Stretching",
	"Sunday":    "Rest Day",
}

// DifficultyFor derives plan difficulty from age and weight. Expert is
// never auto-selected; it only enters through an explicit override.
func DifficultyFor(age, weightLbs int) models.Difficulty {
	if age < 18 || age > 60 || weightLbs > 250 {
		return models.DifficultyBeginner
	}
	return models.DifficultyIntermediate
}

// Generate maps a validated profile to a weekly plan using the catalog.
// Training slots are assigned positionally: the Nth matched body part
// takes the Nth training day, so a part with no matching exercises is
// dropped and later parts shift up into earlier days. Identical profile
// and catalog contents always produce an identical plan.
func Generate(profile models.Profile, cat *catalog.Catalog) models.WeeklyPlan {
	bodyParts, ok := goalBodyParts[profile.Goal]
	if !ok {
		bodyParts = fallbackBodyParts
	}

	difficulty := DifficultyFor(profile.Age, profile.WeightLbs)
	matches := cat.Lookup(profile.Goal, bodyParts, difficulty)

	frequency, ok := goalFrequency[profile.Goal]
	if !ok {
		frequency = defaultFrequency
	}

	schedule := make([]models.DayPlan, 0, len(weekDays))
	next := 0
	for _, day := range weekDays {
		if focus, rest := recoveryFocus[day]; rest {
			schedule = append(schedule, models.DayPlan{Day: day, Focus: focus, Exercises: []models.ExerciseSummary{}})
			continue
		}
		if next < len(matches) {
			m := matches[next]
			next++
			schedule = append(schedule, models.DayPlan{Day: day, Focus: m.BodyPart, Exercises: m.Exercises})
			continue
		}
		schedule = append(schedule, models.DayPlan{Day: day, Focus: "Rest", Exercises: []models.ExerciseSummary{}})
	}

	plan := models.WeeklyPlan{
		UserName:   profile.Name,
		Goal:       profile.Goal,
		Difficulty: difficulty,
		Frequency:  frequency,
		Schedule:   schedule,
	}

	if profile.Injury != "None" {
		plan.InjuryNote = fmt.Sprintf(
			"Important: %s, you have '%s'. Please avoid high-impact exercises and consult with a physical therapist. Low-impact alternatives recommended.",
			profile.Name, profile.Injury,
		)
	}

	return plan
}
