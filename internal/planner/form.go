package planner

import "github.com/claude/planfit/internal/models"

// FormField describes one input of the profile registration form.
type FormField struct {
	FieldName   string   `json:"field_name"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Type        string   `json:"type"`
	Min         int      `json:"min,omitempty"`
	Max         int      `json:"max,omitempty"`
	Required    bool     `json:"required"`
	Description string   `json:"description"`
	Options     []string `json:"options,omitempty"`
}

// Form is the schema the dialogue controller walks through field by
// field when registering a new user.
type Form struct {
	Title   string      `json:"form_title"`
	Fields  []FormField `json:"fields"`
	Message string      `json:"message"`
}

// ProfileForm returns the static profile registration form. The bounds
// here mirror the validator exactly.
func ProfileForm() Form {
	goalOptions := make([]string, len(models.Goals))
	for i, g := range models.Goals {
		goalOptions[i] = string(g)
	}

	return Form{
		Title: "User Profile Registration",
		Fields: []FormField{
			{
				FieldName:   "name",
				Label:       "Full Name",
				Placeholder: "e.g., John Smith",
				Type:        "text",
				Required:    true,
				Description: "Enter your first and last name",
			},
			{
				FieldName:   "age",
				Label:       "Age",
				Placeholder: "e.g., 30",
				Type:        "number",
				Min:         13,
				Max:         120,
				Required:    true,
				Description: "Enter your age in years",
			},
			{
				FieldName:   "height",
				Label:       "Height",
				Placeholder: "e.g., 5'10\" or 180 cm",
				Type:        "text",
				Required:    true,
				Description: "Enter your height (e.g., 5'10\", 6'2\", 180 cm, 170 cm)",
			},
			{
				FieldName:   "weight",
				Label:       "Weight",
				Placeholder: "e.g., 180",
				Type:        "number",
				Min:         50,
				Max:         500,
				Required:    true,
				Description: "Enter your weight in pounds",
			},
			{
				FieldName:   "exercise_goal",
				Label:       "Fitness Goal",
				Type:        "select",
				Required:    true,
				Description: "What is your primary fitness goal?",
				Options:     goalOptions,
			},
			{
				FieldName:   "injury",
				Label:       "Injuries or Limitations",
				Placeholder: "e.g., None, Knee pain, Back strain",
				Type:        "text",
				Required:    false,
				Description: "Any current injuries or physical limitations? (Leave empty for None)",
			},
		},
		Message: "Please fill out your profile information below. This helps us create a personalized workout plan just for you!",
	}
}
