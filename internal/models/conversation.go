package models

import "time"

// Conversation roles.
const (
	RoleUser = "user"
	RolePet  = "pet"
)

// ConversationMessage is one turn of a tier-3 pet chat, user or pet side.
type ConversationMessage struct {
	ID         int64     `json:"id"`
	PetID      int64     `json:"user_pet_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Emotion    string    `json:"emotion,omitempty"`
	TokensUsed int       `json:"tokens_used,omitempty"`
	CostPaisa  int       `json:"cost_paisa,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MoodLog is a standalone user mood check-in, independent of any pet.
type MoodLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MoodScore int       `json:"mood_score"`
	CreatedAt time.Time `json:"created_at"`
}
