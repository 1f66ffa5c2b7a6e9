package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/planfit/internal/models"
	"github.com/google/uuid"
)

// RecordFeedback persists one feedback record and returns it with its
// assigned ID. Feedback is write-only; the core exposes no retrieval.
func (db *DB) RecordFeedback(ctx context.Context, likedExercises bool, text string) (models.Feedback, error) {
	fb := models.Feedback{
		ID:             uuid.NewString(),
		LikedExercises: likedExercises,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}

	query := db.conn.Rebind(`
		INSERT INTO feedback (id, liked_exercises, feedback_text, created_at)
		VALUES (?, ?, ?, ?)`)
	_, err := db.conn.ExecContext(ctx, query,
		fb.ID, fb.LikedExercises, fb.Text, formatTime(fb.CreatedAt))
	if err != nil {
		return models.Feedback{}, fmt.Errorf("inserting feedback: %w", err)
	}
	return fb, nil
}
