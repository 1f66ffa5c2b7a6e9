package mcp

import (
	"context"
	"errors"

	"github.com/claude/planfit/internal/models"
	"github.com/claude/planfit/internal/planner"
	"github.com/claude/planfit/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolCollectProfileForm = mcp.NewTool("collect_user_profile_form",
	mcp.WithDescription("Display the user profile registration form. Walk the user through the fields one at a time: name, age, height, weight, fitness goal, and optional injuries."),
)

var profileArgs = []mcp.ToolOption{
	mcp.WithString("name", mcp.Required(), mcp.Description("User's full name")),
	mcp.WithNumber("age", mcp.Required(), mcp.Description("Age in years (13-120)")),
	mcp.WithString("height", mcp.Required(), mcp.Description("Height as free text (e.g. 5'10\" or 180 cm)")),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight in pounds (50-500)")),
	mcp.WithString("exercise_goal", mcp.Required(), mcp.Description("Fitness goal"), mcp.Enum("Weight Loss", "Strength Building", "Cardio")),
	mcp.WithString("injury", mcp.Description("Current injuries or limitations. Leave empty for none.")),
}

var toolValidateProfile = mcp.NewTool("validate_user_profile",
	append([]mcp.ToolOption{
		mcp.WithDescription("Validate collected profile fields without saving. Returns the normalized profile, or the first failing field with a message to re-prompt with."),
	}, profileArgs...)...,
)

var toolSaveProfile = mcp.NewTool("save_user_profile",
	append([]mcp.ToolOption{
		mcp.WithDescription("Validate and save a user profile. Profiles are append-only: a new submission creates a new profile record. Returns the profile ID."),
	}, profileArgs...)...,
)

var toolGetLatestProfile = mcp.NewTool("get_latest_user_profile",
	mcp.WithDescription("Retrieve the most recently saved user profile, optionally scoped to a user name."),
	mcp.WithString("name", mcp.Description("User name to look up. Omit for the most recent profile overall.")),
)

var toolGeneratePlan = mcp.NewTool("generate_weekly_workout_plan",
	mcp.WithDescription("Generate a personalized weekly workout plan from the user's latest saved profile. Deterministic: the same profile and dataset always produce the same plan."),
	mcp.WithString("name", mcp.Description("User name whose latest profile to use. Omit for the most recent profile overall.")),
)

var toolSaveSession = mcp.NewTool("save_session",
	mcp.WithDescription("Save a session snapshotting the user's latest profile and the plan generated from it, for later refinement. Returns the session ID."),
	mcp.WithString("name", mcp.Description("User name whose latest profile to snapshot. Omit for the most recent profile overall.")),
)

var toolGetUserSessions = mcp.NewTool("get_user_sessions",
	mcp.WithDescription("Retrieve all sessions for a user, most recently updated first."),
	mcp.WithString("name", mcp.Required(), mcp.Description("User name to search for sessions")),
)

var toolGetLatestSession = mcp.NewTool("get_latest_user_session",
	mcp.WithDescription("Retrieve the most recent session for a user, including their profile, plan, and refinement history. Use at conversation start to recognize returning users."),
	mcp.WithString("name", mcp.Required(), mcp.Description("User name to search for the latest session")),
)

var toolAddRefinement = mcp.NewTool("add_refinement_to_session",
	mcp.WithDescription("Append a refinement request to an existing session's history (e.g. difficulty change, focus change, injury update)."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID to update")),
	mcp.WithString("type", mcp.Required(), mcp.Description("Refinement type (e.g. 'difficulty_increase', 'focus_change')")),
	mcp.WithString("details", mcp.Description("Details about the requested refinement")),
)

var toolCollectFeedback = mcp.NewTool("collect_user_feedback",
	mcp.WithDescription("Record the user's feedback on their workout plan."),
	mcp.WithBoolean("liked_exercises", mcp.Required(), mcp.Description("Whether the user liked the recommended exercises")),
	mcp.WithString("feedback", mcp.Description("Optional detailed feedback from the user")),
)

// --- Tool handlers ---

func (h *handlers) collectProfileForm(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"status": "form_ready",
		"form":   planner.ProfileForm(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// profileInputFromRequest pulls the shared profile arguments off a tool
// call. The second return is a ready error result when a required
// argument is missing.
func profileInputFromRequest(req mcp.CallToolRequest) (models.ProfileInput, *mcp.CallToolResult) {
	name, err := req.RequireString("name")
	if err != nil {
		return models.ProfileInput{}, mcp.NewToolResultError("name parameter is required")
	}
	age, err := req.RequireInt("age")
	if err != nil {
		return models.ProfileInput{}, mcp.NewToolResultError("age parameter is required")
	}
	height, err := req.RequireString("height")
	if err != nil {
		return models.ProfileInput{}, mcp.NewToolResultError("height parameter is required")
	}
	weight, err := req.RequireInt("weight")
	if err != nil {
		return models.ProfileInput{}, mcp.NewToolResultError("weight parameter is required")
	}
	goal, err := req.RequireString("exercise_goal")
	if err != nil {
		return models.ProfileInput{}, mcp.NewToolResultError("exercise_goal parameter is required")
	}

	return models.ProfileInput{
		Name:      name,
		Age:       age,
		Height:    height,
		WeightLbs: weight,
		Goal:      goal,
		Injury:    req.GetString("injury", ""),
	}, nil
}

func (h *handlers) validateProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, errResult := profileInputFromRequest(req)
	if errResult != nil {
		return errResult, nil
	}

	profile, err := planner.Validate(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"status": "success", "profile": profile})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) saveProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, errResult := profileInputFromRequest(req)
	if errResult != nil {
		return errResult, nil
	}

	profile, err := planner.Validate(in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	saved, err := h.db.SaveProfile(ctx, profile)
	if err != nil {
		h.log.Error("mcp save_user_profile", "error", err)
		return mcp.NewToolResultError("failed to save profile: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":     "success",
		"profile_id": saved.ID,
		"profile":    saved,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	profile, err := h.db.GetLatestProfile(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("No user profile found in database."), nil
	}
	if err != nil {
		h.log.Error("mcp get_latest_user_profile", "error", err)
		return mcp.NewToolResultError("failed to retrieve profile: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"status": "success", "profile": profile})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	profile, err := h.db.GetLatestProfile(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("No user profile found. Save a profile before generating a plan."), nil
	}
	if err != nil {
		h.log.Error("mcp generate_weekly_workout_plan", "error", err)
		return mcp.NewToolResultError("failed to retrieve profile: " + err.Error()), nil
	}

	plan := planner.Generate(profile, h.cat)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":     "success",
		"profile_id": profile.ID,
		"plan":       plan,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) saveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	profile, err := h.db.GetLatestProfile(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("No user profile found. Save a profile before saving a session."), nil
	}
	if err != nil {
		h.log.Error("mcp save_session", "error", err)
		return mcp.NewToolResultError("failed to retrieve profile: " + err.Error()), nil
	}

	// Regeneration is safe: identical profile and catalog produce an
	// identical plan.
	plan := planner.Generate(profile, h.cat)

	session, err := h.db.SaveSession(ctx, profile.ID, profile.Name, profile, plan)
	if err != nil {
		h.log.Error("mcp save_session", "error", err)
		return mcp.NewToolResultError("failed to save session: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":     "success",
		"session_id": session.SessionID,
		"user_id":    session.UserID,
		"session":    session,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getUserSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	sessions, err := h.db.ListSessions(ctx, name)
	if err != nil {
		h.log.Error("mcp get_user_sessions", "error", err)
		return mcp.NewToolResultError("failed to retrieve sessions: " + err.Error()), nil
	}
	if len(sessions) == 0 {
		return mcp.NewToolResultError("No sessions found for user '" + name + "'"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":         "success",
		"user_name":      name,
		"sessions_count": len(sessions),
		"sessions":       sessions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	session, err := h.db.GetLatestSession(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("No session found for user '" + name + "'"), nil
	}
	if err != nil {
		h.log.Error("mcp get_latest_user_session", "error", err)
		return mcp.NewToolResultError("failed to retrieve session: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"status": "success", "session": session})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) addRefinement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	refinementType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	details := req.GetString("details", "")

	session, err := h.db.AppendRefinement(ctx, sessionID, refinementType, details)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("Session " + sessionID + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp add_refinement_to_session", "error", err)
		return mcp.NewToolResultError("failed to add refinement: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":           "success",
		"session_id":       session.SessionID,
		"refinement_count": len(session.RefinementHistory),
		"session":          session,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) collectFeedback(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	liked, err := req.RequireBool("liked_exercises")
	if err != nil {
		return mcp.NewToolResultError("liked_exercises parameter is required"), nil
	}
	text := req.GetString("feedback", "")

	fb, err := h.db.RecordFeedback(ctx, liked, text)
	if err != nil {
		h.log.Error("mcp collect_user_feedback", "error", err)
		return mcp.NewToolResultError("failed to record feedback: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"status":          "success",
		"feedback_id":     fb.ID,
		"liked_exercises": fb.LikedExercises,
		"message":         "Thank you for your feedback! We'll use this to improve future recommendations.",
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
