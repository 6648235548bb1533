package service

import (
	"fmt"

	"pethub/internal/models"
	"pethub/internal/repository"
	"pethub/internal/validation"
)

// MoodService records standalone user mood check-ins
type MoodService struct {
	moods *repository.MoodRepository
}

// NewMoodService creates a new mood service
func NewMoodService(moods *repository.MoodRepository) *MoodService {
	return &MoodService{moods: moods}
}

// Record stores a mood check-in for a user
func (s *MoodService) Record(userID int64, score int) (*models.MoodLog, error) {
	if err := validation.ValidateMoodScore(score); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	entry := &models.MoodLog{
		UserID:    userID,
		MoodScore: score,
	}
	id, err := s.moods.Create(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to record mood: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// History returns a user's recent mood check-ins, newest first
func (s *MoodService) History(userID int64, limit int) ([]models.MoodLog, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	return s.moods.ListByUser(userID, limit)
}
