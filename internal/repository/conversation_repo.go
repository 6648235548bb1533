package repository

import (
	"fmt"

	"pethub/internal/database"
	"pethub/internal/models"
)

// ConversationRepository handles pet chat transcript persistence. Like the
// interaction ledger, the transcript is append-only.
type ConversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *database.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Append records one conversation turn.
func (r *ConversationRepository) Append(msg *models.ConversationMessage) (int64, error) {
	query := `
		INSERT INTO pet_conversations
			(user_pet_id, role, content, emotion, tokens_used, cost_paisa, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		msg.PetID, msg.Role, msg.Content, msg.Emotion,
		msg.TokensUsed, msg.CostPaisa, msg.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append conversation message: %w", err)
	}

	msg.ID = id
	return id, nil
}

// ListByPet retrieves the most recent limit turns for a pet, oldest first.
func (r *ConversationRepository) ListByPet(petID int64, limit int) ([]models.ConversationMessage, error) {
	query := `
		SELECT id, user_pet_id, role, content, COALESCE(emotion, ''),
		       tokens_used, cost_paisa, created_at
		FROM (
			SELECT * FROM pet_conversations
			WHERE user_pet_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) recent
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, petID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	var messages []models.ConversationMessage
	for rows.Next() {
		var msg models.ConversationMessage
		err := rows.Scan(
			&msg.ID, &msg.PetID, &msg.Role, &msg.Content, &msg.Emotion,
			&msg.TokensUsed, &msg.CostPaisa, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
