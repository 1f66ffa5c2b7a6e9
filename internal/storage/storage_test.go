package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/claude/planfit/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "planfit.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func testProfile(name string) models.Profile {
	return models.Profile{
		Name:      name,
		Age:       28,
		Height:    "5'7\"",
		WeightLbs: 150,
		Goal:      models.GoalStrengthBuilding,
		Injury:    "None",
	}
}

func testPlan(name string) models.WeeklyPlan {
	return models.WeeklyPlan{
		UserName:   name,
		Goal:       models.GoalStrengthBuilding,
		Difficulty: models.DifficultyIntermediate,
		Frequency:  "4-5 days per week",
		Schedule: []models.DayPlan{
			{Day: "Monday", Focus: "Back", Exercises: []models.ExerciseSummary{
				{Title: "Deadlift", Description: "Classic pull", Equipment: "Barbell", Rating: "9.5"},
			}},
			{Day: "Tuesday", Focus: "Rest", Exercises: []models.ExerciseSummary{}},
		},
	}
}

// TestProfileAppendOnly verifies later saves for the same owner do not
// overwrite earlier rows and that the latest one wins on read.
func TestProfileAppendOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first, err := db.SaveProfile(ctx, testProfile("Alice"))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := testProfile("Alice")
	second.WeightLbs = 160
	saved, err := db.SaveProfile(ctx, second)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if saved.ID == first.ID {
		t.Error("second save reused the first profile ID")
	}

	latest, err := db.GetLatestProfile(ctx, "Alice")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.ID != saved.ID {
		t.Errorf("latest ID = %s, want %s", latest.ID, saved.ID)
	}
	if latest.WeightLbs != 160 {
		t.Errorf("latest weight = %d, want 160", latest.WeightLbs)
	}
}

// TestTimestampOrderingWithinSecond verifies stored timestamps sort
// lexicographically in chronological order even when the fractional
// seconds differ only in trailing zeros. Every "latest" query orders by
// these TEXT columns, so a trimmed fraction would flip the result.
func TestTimestampOrderingWithinSecond(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	earlier := base.Add(100 * time.Millisecond)
	later := base.Add(120 * time.Millisecond)

	if e, l := formatTime(earlier), formatTime(later); e >= l {
		t.Fatalf("formatTime order broken: %q >= %q", e, l)
	}

	db := testDB(t)
	ctx := context.Background()
	insert := db.conn.Rebind(`INSERT INTO user_profiles
		(id, name, age, height, weight, exercise_goal, injury, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, row := range []struct {
		id     string
		weight int
		at     time.Time
	}{
		{"older", 150, earlier},
		{"newer", 160, later},
	} {
		_, err := db.conn.ExecContext(ctx, insert,
			row.id, "Alice", 28, "5'7\"", row.weight, "Strength Building", "None", formatTime(row.at))
		if err != nil {
			t.Fatalf("inserting row %s: %v", row.id, err)
		}
	}

	latest, err := db.GetLatestProfile(ctx, "Alice")
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.ID != "newer" {
		t.Errorf("latest ID = %s, want newer", latest.ID)
	}
}

// TestGetLatestProfileScoping verifies owner filtering and the global
// fallback when no name is given.
func TestGetLatestProfileScoping(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.SaveProfile(ctx, testProfile("Alice")); err != nil {
		t.Fatal(err)
	}
	bob, err := db.SaveProfile(ctx, testProfile("Bob"))
	if err != nil {
		t.Fatal(err)
	}

	latest, err := db.GetLatestProfile(ctx, "")
	if err != nil {
		t.Fatalf("global latest: %v", err)
	}
	if latest.ID != bob.ID {
		t.Errorf("global latest = %s, want Bob's %s", latest.ID, bob.ID)
	}

	alice, err := db.GetLatestProfile(ctx, "Alice")
	if err != nil {
		t.Fatalf("scoped latest: %v", err)
	}
	if alice.Name != "Alice" {
		t.Errorf("scoped latest name = %q, want Alice", alice.Name)
	}

	if _, err := db.GetLatestProfile(ctx, "Carol"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown owner: err = %v, want ErrNotFound", err)
	}
}

// TestSessionRoundTrip verifies a saved session comes back with the
// profile and plan snapshots equal to the inputs.
func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile, err := db.SaveProfile(ctx, testProfile("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	plan := testPlan("Alice")

	saved, err := db.SaveSession(ctx, profile.ID, "Alice", profile, plan)
	if err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, err := db.GetLatestSession(ctx, "Alice")
	if err != nil {
		t.Fatalf("get latest session: %v", err)
	}
	if got.SessionID != saved.SessionID {
		t.Errorf("session ID = %s, want %s", got.SessionID, saved.SessionID)
	}
	if !reflect.DeepEqual(got.Plan, plan) {
		t.Errorf("plan snapshot mismatch:\n got %+v\nwant %+v", got.Plan, plan)
	}
	if got.Profile.ID != profile.ID || got.Profile.WeightLbs != profile.WeightLbs {
		t.Errorf("profile snapshot mismatch: got %+v", got.Profile)
	}
	if len(got.RefinementHistory) != 0 {
		t.Errorf("new session has %d refinements, want 0", len(got.RefinementHistory))
	}
}

// TestGetLatestSessionNotFound verifies a missing owner is ErrNotFound,
// distinct from an I/O failure.
func TestGetLatestSessionNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetLatestSession(context.Background(), "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestListSessionsOrder verifies per-owner listing is ordered by
// last_updated descending and excludes other owners.
func TestListSessionsOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile, err := db.SaveProfile(ctx, testProfile("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	first, err := db.SaveSession(ctx, profile.ID, "Alice", profile, testPlan("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.SaveSession(ctx, profile.ID, "Alice", profile, testPlan("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.SaveSession(ctx, "other", "Bob", testProfile("Bob"), testPlan("Bob")); err != nil {
		t.Fatal(err)
	}

	// Touch the first session so it becomes the most recently updated.
	if _, err := db.AppendRefinement(ctx, first.SessionID, "difficulty_increase", "wants harder plan"); err != nil {
		t.Fatal(err)
	}

	sessions, err := db.ListSessions(ctx, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].SessionID != first.SessionID {
		t.Errorf("sessions[0] = %s, want refined session %s", sessions[0].SessionID, first.SessionID)
	}
	if sessions[1].SessionID != second.SessionID {
		t.Errorf("sessions[1] = %s, want %s", sessions[1].SessionID, second.SessionID)
	}
}

// TestAppendRefinement verifies appends are append-only: two calls
// extend the history by exactly two entries, preserving prior ones, and
// advance last_updated.
func TestAppendRefinement(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile, err := db.SaveProfile(ctx, testProfile("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	session, err := db.SaveSession(ctx, profile.ID, "Alice", profile, testPlan("Alice"))
	if err != nil {
		t.Fatal(err)
	}

	afterFirst, err := db.AppendRefinement(ctx, session.SessionID, "focus_change", "more legs")
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	if len(afterFirst.RefinementHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(afterFirst.RefinementHistory))
	}

	afterSecond, err := db.AppendRefinement(ctx, session.SessionID, "injury_update", "knee pain")
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if len(afterSecond.RefinementHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(afterSecond.RefinementHistory))
	}
	if afterSecond.RefinementHistory[0].Type != "focus_change" {
		t.Errorf("first entry type = %q, want focus_change", afterSecond.RefinementHistory[0].Type)
	}
	if afterSecond.RefinementHistory[1].Details != "knee pain" {
		t.Errorf("second entry details = %q, want %q", afterSecond.RefinementHistory[1].Details, "knee pain")
	}
	if !afterSecond.LastUpdated.After(session.LastUpdated) {
		t.Error("last_updated did not advance")
	}
}

// TestAppendRefinementUnknownSession verifies an unknown session ID is
// ErrNotFound.
func TestAppendRefinementUnknownSession(t *testing.T) {
	db := testDB(t)
	_, err := db.AppendRefinement(context.Background(), "no-such-session", "focus_change", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestAppendRefinementConcurrent verifies concurrent appends to the
// same session never lose entries: the per-session lock serializes the
// read-modify-write.
func TestAppendRefinementConcurrent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	profile, err := db.SaveProfile(ctx, testProfile("Alice"))
	if err != nil {
		t.Fatal(err)
	}
	session, err := db.SaveSession(ctx, profile.ID, "Alice", profile, testPlan("Alice"))
	if err != nil {
		t.Fatal(err)
	}

	const appends = 20
	var wg sync.WaitGroup
	errs := make(chan error, appends)
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.AppendRefinement(ctx, session.SessionID, "focus_change", "concurrent")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	final, err := db.GetLatestSession(ctx, "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(final.RefinementHistory) != appends {
		t.Errorf("history length = %d, want %d", len(final.RefinementHistory), appends)
	}
}

// TestListRecentSessions verifies the cross-owner listing honors its
// limit and ordering.
func TestListRecentSessions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		profile, err := db.SaveProfile(ctx, testProfile(name))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.SaveSession(ctx, profile.ID, name, profile, testPlan(name)); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := db.ListRecentSessions(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].UserName != "Carol" {
		t.Errorf("most recent session owner = %q, want Carol", sessions[0].UserName)
	}
}

// TestRecordFeedback verifies feedback rows get IDs and persist.
func TestRecordFeedback(t *testing.T) {
	db := testDB(t)

	fb, err := db.RecordFeedback(context.Background(), true, "loved the leg day")
	if err != nil {
		t.Fatalf("record feedback: %v", err)
	}
	if fb.ID == "" {
		t.Error("feedback ID is empty")
	}
	if !fb.LikedExercises {
		t.Error("liked_exercises = false, want true")
	}
}
