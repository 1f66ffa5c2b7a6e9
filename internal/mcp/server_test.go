package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/planfit/internal/catalog"
	"github.com/claude/planfit/internal/models"
	"github.com/claude/planfit/internal/storage"
)

func testHandlers(t *testing.T) *handlers {
	t.Helper()
	db, err := storage.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "planfit.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	cat := catalog.New([]models.ExerciseRecord{
		{Title: "Deadlift", Description: "No description", Equipment: "Barbell",
			Rating: "9.5", BodyPart: "Back", Type: "Strength", Level: "Intermediate"},
		{Title: "Bench Press", Description: "No description", Equipment: "Barbell",
			Rating: "9.0", BodyPart: "Chest", Type: "Strength", Level: "Intermediate"},
	})

	return &handlers{
		db:  db,
		cat: cat,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultPayload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool returned error result: %+v", result.Content)
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("result content is not text: %+v", result.Content[0])
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("decoding result %q: %v", text.Text, err)
	}
	return payload
}

func profileArgsMap() map[string]any {
	return map[string]any{
		"name":          "Alice",
		"age":           30,
		"height":        "5'7\"",
		"weight":        150,
		"exercise_goal": "Strength Building",
		"injury":        "none",
	}
}

// TestProfileInputFromRequest verifies argument extraction and the
// missing-required-argument error path.
func TestProfileInputFromRequest(t *testing.T) {
	in, errResult := profileInputFromRequest(toolRequest("save_user_profile", profileArgsMap()))
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if in.Name != "Alice" || in.Age != 30 || in.WeightLbs != 150 {
		t.Errorf("unexpected input: %+v", in)
	}
	if in.Injury != "none" {
		t.Errorf("injury = %q, want raw value before normalization", in.Injury)
	}

	args := profileArgsMap()
	delete(args, "age")
	_, errResult = profileInputFromRequest(toolRequest("save_user_profile", args))
	if errResult == nil {
		t.Fatal("missing age accepted")
	}
}

// TestValidateProfileTool verifies validation errors come back as tool
// error results with the validator's message.
func TestValidateProfileTool(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	result, err := h.validateProfile(ctx, toolRequest("validate_user_profile", profileArgsMap()))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	payload := resultPayload(t, result)
	if payload["status"] != "success" {
		t.Errorf("status = %v, want success", payload["status"])
	}

	args := profileArgsMap()
	args["weight"] = 30
	result, err = h.validateProfile(ctx, toolRequest("validate_user_profile", args))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("underweight profile accepted")
	}
	text, _ := mcp.AsTextContent(result.Content[0])
	if text.Text != "Weight must be between 50 and 500 lbs" {
		t.Errorf("error text = %q, want exact weight bounds message", text.Text)
	}
}

// TestSaveProfileAndGeneratePlan exercises the save → generate flow
// against the store.
func TestSaveProfileAndGeneratePlan(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	result, err := h.saveProfile(ctx, toolRequest("save_user_profile", profileArgsMap()))
	if err != nil {
		t.Fatalf("save handler error: %v", err)
	}
	saved := resultPayload(t, result)
	if saved["profile_id"] == "" || saved["profile_id"] == nil {
		t.Fatal("save result has no profile_id")
	}

	result, err = h.generatePlan(ctx, toolRequest("generate_weekly_workout_plan", map[string]any{"name": "Alice"}))
	if err != nil {
		t.Fatalf("generate handler error: %v", err)
	}
	payload := resultPayload(t, result)
	plan, ok := payload["plan"].(map[string]any)
	if !ok {
		t.Fatalf("plan missing from result: %v", payload)
	}
	if plan["goal"] != "Strength Building" {
		t.Errorf("plan goal = %v, want Strength Building", plan["goal"])
	}
}

// TestGeneratePlanWithoutProfile verifies the no-profile error path.
func TestGeneratePlanWithoutProfile(t *testing.T) {
	h := testHandlers(t)

	result, err := h.generatePlan(context.Background(), toolRequest("generate_weekly_workout_plan", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("plan generated with an empty store")
	}
}

// TestSaveSessionAndRefine exercises the session snapshot and
// refinement flow end to end through the tool handlers.
func TestSaveSessionAndRefine(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	if _, err := h.saveProfile(ctx, toolRequest("save_user_profile", profileArgsMap())); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	result, err := h.saveSession(ctx, toolRequest("save_session", map[string]any{"name": "Alice"}))
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	payload := resultPayload(t, result)
	sessionID, _ := payload["session_id"].(string)
	if sessionID == "" {
		t.Fatal("save_session result has no session_id")
	}

	result, err = h.addRefinement(ctx, toolRequest("add_refinement_to_session", map[string]any{
		"session_id": sessionID,
		"type":       "difficulty_increase",
		"details":    "wants a harder plan",
	}))
	if err != nil {
		t.Fatalf("add refinement: %v", err)
	}
	payload = resultPayload(t, result)
	if payload["refinement_count"].(float64) != 1 {
		t.Errorf("refinement_count = %v, want 1", payload["refinement_count"])
	}

	result, err = h.getLatestSession(ctx, toolRequest("get_latest_user_session", map[string]any{"name": "Alice"}))
	if err != nil {
		t.Fatalf("get latest session: %v", err)
	}
	payload = resultPayload(t, result)
	session, ok := payload["session"].(map[string]any)
	if !ok {
		t.Fatalf("session missing from result: %v", payload)
	}
	history, _ := session["refinement_history"].([]any)
	if len(history) != 1 {
		t.Errorf("refinement history length = %d, want 1", len(history))
	}
}

// TestCollectFeedbackTool verifies the acknowledgement message.
func TestCollectFeedbackTool(t *testing.T) {
	h := testHandlers(t)

	result, err := h.collectFeedback(context.Background(), toolRequest("collect_user_feedback", map[string]any{
		"liked_exercises": true,
		"feedback":        "loved it",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	payload := resultPayload(t, result)
	if payload["message"] != "Thank you for your feedback! We'll use this to improve future recommendations." {
		t.Errorf("unexpected ack message: %v", payload["message"])
	}
}
