package models

import "time"

// Goal is a user's primary fitness goal. The string values match the
// exercise dataset and the stored profile rows exactly.
type Goal string

const (
	GoalWeightLoss       Goal = "Weight Loss"
	GoalStrengthBuilding Goal = "Strength Building"
	GoalCardio           Goal = "Cardio"
)

// Goals lists the accepted fitness goals in display order.
var Goals = []Goal{GoalWeightLoss, GoalStrengthBuilding, GoalCardio}

// Valid reports whether g is one of the accepted goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalStrengthBuilding, GoalCardio:
		return true
	}
	return false
}

// Profile is a validated user profile. Profiles are immutable once
// saved; a refinement produces a new Profile row rather than mutating
// an existing one.
type Profile struct {
	ID        string    `json:"profile_id,omitempty"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Height    string    `json:"height"`
	WeightLbs int       `json:"weight"`
	Goal      Goal      `json:"exercise_goal"`
	Injury    string    `json:"injury"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ProfileInput carries raw user-supplied profile fields before
// validation. Only the validator turns one of these into a Profile.
type ProfileInput struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Height    string `json:"height"`
	WeightLbs int    `json:"weight"`
	Goal      string `json:"exercise_goal"`
	Injury    string `json:"injury"`
}
