package models

import "time"

// InteractionType identifies the kind of user action recorded in the ledger.
type InteractionType string

const (
	InteractionTouch     InteractionType = "touch"
	InteractionBreathing InteractionType = "breathing"
	InteractionGame      InteractionType = "game"
	InteractionVoiceChat InteractionType = "voice_chat"
	InteractionTextChat  InteractionType = "text_chat"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionTouch, InteractionBreathing, InteractionGame,
		InteractionVoiceChat, InteractionTextChat:
		return true
	}
	return false
}

// Interaction is one immutable ledger entry. Entries are append-only and
// ordered by creation time (insertion id breaks ties); a pet's live state is
// reproducible by folding the stat engine over its ledger from the adoption
// defaults.
type Interaction struct {
	ID           int64                  `json:"id"`
	PetID        int64                  `json:"user_pet_id"`
	Type         InteractionType        `json:"interaction_type"`
	DurationSecs int                    `json:"duration_secs"`
	XPEarned     int                    `json:"xp_earned"`
	MoodBefore   *float64               `json:"mood_before,omitempty"`
	MoodAfter    *float64               `json:"mood_after,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}
