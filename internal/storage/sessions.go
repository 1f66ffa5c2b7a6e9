package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/planfit/internal/models"
	"github.com/google/uuid"
)

// SaveSession persists a new session snapshotting the given profile and
// plan. Each submission creates a new session; refinements to an
// existing journey go through AppendRefinement instead.
func (db *DB) SaveSession(ctx context.Context, userID, userName string, profile models.Profile, plan models.WeeklyPlan) (models.Session, error) {
	now := time.Now().UTC()
	session := models.Session{
		SessionID:         uuid.NewString(),
		UserID:            userID,
		UserName:          userName,
		Profile:           profile,
		Plan:              plan,
		RefinementHistory: []models.RefinementEntry{},
		CreatedAt:         now,
		LastUpdated:       now,
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return models.Session{}, fmt.Errorf("encoding profile: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return models.Session{}, fmt.Errorf("encoding plan: %w", err)
	}

	query := db.conn.Rebind(`
		INSERT INTO sessions (session_id, user_id, user_name, profile_data, workout_plan, refinement_history, created_at, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = db.conn.ExecContext(ctx, query,
		session.SessionID, userID, userName,
		string(profileJSON), string(planJSON), "[]",
		formatTime(now), formatTime(now))
	if err != nil {
		return models.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return session, nil
}

// GetLatestSession returns the owner's most recently updated session,
// or ErrNotFound.
func (db *DB) GetLatestSession(ctx context.Context, userName string) (models.Session, error) {
	query := db.conn.Rebind(selectSession + `
		WHERE user_name = ?
		ORDER BY last_updated DESC
		LIMIT 1`)
	row := db.conn.QueryRowContext(ctx, query, userName)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// ListSessions returns all sessions for an owner, most recently
// updated first. An owner with no sessions gets an empty list, not an
// error.
func (db *DB) ListSessions(ctx context.Context, userName string) ([]models.Session, error) {
	query := db.conn.Rebind(selectSession + `
		WHERE user_name = ?
		ORDER BY last_updated DESC`)
	return db.querySessions(ctx, query, userName)
}

// ListRecentSessions returns the newest sessions across all owners.
func (db *DB) ListRecentSessions(ctx context.Context, limit int) ([]models.Session, error) {
	query := db.conn.Rebind(selectSession + `
		ORDER BY last_updated DESC
		LIMIT ?`)
	return db.querySessions(ctx, query, limit)
}

// AppendRefinement appends one entry to a session's refinement history
// with a fresh timestamp and advances last_updated. This is the only
// in-place session mutation; the read-modify-write is serialized per
// session so concurrent appends never drop entries. Returns the
// updated session, or ErrNotFound for an unknown session ID.
func (db *DB) AppendRefinement(ctx context.Context, sessionID, refinementType, details string) (models.Session, error) {
	mu := db.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return models.Session{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var historyJSON string
	row := tx.QueryRowContext(ctx, db.conn.Rebind(
		`SELECT refinement_history FROM sessions WHERE session_id = ?`), sessionID)
	if err := row.Scan(&historyJSON); errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	} else if err != nil {
		return models.Session{}, fmt.Errorf("querying refinement history: %w", err)
	}

	var history []models.RefinementEntry
	if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
		return models.Session{}, fmt.Errorf("decoding stored refinement history: %w", err)
	}

	now := time.Now().UTC()
	history = append(history, models.RefinementEntry{
		Timestamp: now,
		Type:      refinementType,
		Details:   details,
	})
	updated, err := json.Marshal(history)
	if err != nil {
		return models.Session{}, fmt.Errorf("encoding refinement history: %w", err)
	}

	_, err = tx.ExecContext(ctx, db.conn.Rebind(
		`UPDATE sessions SET refinement_history = ?, last_updated = ? WHERE session_id = ?`),
		string(updated), formatTime(now), sessionID)
	if err != nil {
		return models.Session{}, fmt.Errorf("updating session: %w", err)
	}

	session, err := scanSession(tx.QueryRowContext(ctx, db.conn.Rebind(
		selectSession+` WHERE session_id = ?`), sessionID))
	if err != nil {
		return models.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Session{}, fmt.Errorf("committing refinement: %w", err)
	}
	return session, nil
}

const selectSession = `
	SELECT session_id, user_id, user_name, profile_data, workout_plan, refinement_history, created_at, last_updated
	FROM sessions`

func (db *DB) querySessions(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession decodes one session row. Malformed stored JSON is a
// store-level error, not silently swallowed.
func scanSession(row rowScanner) (models.Session, error) {
	var s models.Session
	var profileJSON, planJSON, historyJSON, createdAt, lastUpdated string

	err := row.Scan(&s.SessionID, &s.UserID, &s.UserName,
		&profileJSON, &planJSON, &historyJSON, &createdAt, &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, err
		}
		return models.Session{}, fmt.Errorf("scanning session: %w", err)
	}

	if err := json.Unmarshal([]byte(profileJSON), &s.Profile); err != nil {
		return models.Session{}, fmt.Errorf("decoding stored profile: %w", err)
	}
	if err := json.Unmarshal([]byte(planJSON), &s.Plan); err != nil {
		return models.Session{}, fmt.Errorf("decoding stored plan: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &s.RefinementHistory); err != nil {
		return models.Session{}, fmt.Errorf("decoding stored refinement history: %w", err)
	}
	if s.RefinementHistory == nil {
		s.RefinementHistory = []models.RefinementEntry{}
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Session{}, err
	}
	if s.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return models.Session{}, err
	}
	return s, nil
}
