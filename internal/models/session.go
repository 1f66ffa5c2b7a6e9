package models

import "time"

// RefinementEntry is one logged request to adjust a previously
// generated plan. History entries are append-only.
type RefinementEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
}

// Session links a profile snapshot to the plan generated from it, plus
// the refinement history accumulated over the user's journey.
type Session struct {
	SessionID         string            `json:"session_id"`
	UserID            string            `json:"user_id"`
	UserName          string            `json:"user_name"`
	Profile           Profile           `json:"profile"`
	Plan              WeeklyPlan        `json:"workout_plan"`
	RefinementHistory []RefinementEntry `json:"refinement_history"`
	CreatedAt         time.Time         `json:"created_at"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// Feedback is a terminal user reaction to a plan. Write-only; there is
// no retrieval surface.
type Feedback struct {
	ID             string    `json:"id"`
	LikedExercises bool      `json:"liked_exercises"`
	Text           string    `json:"feedback"`
	CreatedAt      time.Time `json:"created_at"`
}
