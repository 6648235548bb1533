package repository

import (
	"fmt"

	"pethub/internal/database"
	"pethub/internal/models"
)

// MoodRepository handles user mood check-in persistence
type MoodRepository struct {
	db *database.DB
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *database.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// Create records a mood check-in for a user
func (r *MoodRepository) Create(log *models.MoodLog) (int64, error) {
	query := `
		INSERT INTO mood_logs (user_id, mood_score, created_at)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, log.UserID, log.MoodScore, log.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create mood log: %w", err)
	}

	log.ID = id
	return id, nil
}

// ListByUser retrieves the most recent limit check-ins, newest first.
func (r *MoodRepository) ListByUser(userID int64, limit int) ([]models.MoodLog, error) {
	query := `
		SELECT id, user_id, mood_score, created_at
		FROM mood_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood logs: %w", err)
	}
	defer rows.Close()

	var logs []models.MoodLog
	for rows.Next() {
		var log models.MoodLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.MoodScore, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
