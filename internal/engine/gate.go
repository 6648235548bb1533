package engine

import (
	"errors"
	"fmt"

	"pethub/internal/models"
)

// Action is a capability-gated operation a user can attempt against a pet.
type Action string

const (
	ActionTextChat  Action = "text_chat"
	ActionVoiceChat Action = "voice_chat"
)

// chatTier is the minimum species tier for the AI chat and voice actions.
const chatTier = models.TierAI

// ErrTierInsufficient is the policy rejection for a gated action attempted
// against a pet whose species tier is too low. It is distinct from the
// not-found and validation errors so callers can answer "upgrade required".
var ErrTierInsufficient = errors.New("species tier does not allow this action")

// Authorize checks whether a pet of the given species tier may perform
// action. It is pure and side-effect free; callers log denials if they care.
func Authorize(tier int, action Action) error {
	switch action {
	case ActionTextChat, ActionVoiceChat:
		if tier < chatTier {
			return fmt.Errorf("%s requires a tier %d pet, have tier %d: %w",
				action, chatTier, tier, ErrTierInsufficient)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// GatedAction maps an interaction type to the capability it requires, if
// any. Touch, breathing and game interactions are ungated.
func GatedAction(t models.InteractionType) (Action, bool) {
	switch t {
	case models.InteractionTextChat:
		return ActionTextChat, true
	case models.InteractionVoiceChat:
		return ActionVoiceChat, true
	}
	return "", false
}
