package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/claude/planfit/internal/models"
	"github.com/google/uuid"
)

// SaveProfile inserts a new profile row and returns it with its
// assigned ID and creation time. The table is append-only: a returning
// user's new submission never overwrites an earlier row.
func (db *DB) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now().UTC()

	query := db.conn.Rebind(`
		INSERT INTO user_profiles (id, name, age, height, weight, exercise_goal, injury, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := db.conn.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Age, profile.Height,
		profile.WeightLbs, string(profile.Goal), profile.Injury,
		formatTime(profile.CreatedAt))
	if err != nil {
		return models.Profile{}, fmt.Errorf("inserting profile: %w", err)
	}
	return profile, nil
}

// GetLatestProfile returns the most recently created profile. With a
// non-empty name it is scoped to that owner; with an empty name it
// returns the newest profile overall. Returns ErrNotFound when no row
// matches.
func (db *DB) GetLatestProfile(ctx context.Context, name string) (models.Profile, error) {
	query := `
		SELECT id, name, age, height, weight, exercise_goal, injury, created_at
		FROM user_profiles`
	args := []any{}
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	row := db.conn.QueryRowContext(ctx, db.conn.Rebind(query), args...)

	var p models.Profile
	var goal, createdAt string
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Height, &p.WeightLbs, &goal, &p.Injury, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("querying latest profile: %w", err)
	}
	p.Goal = models.Goal(goal)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
