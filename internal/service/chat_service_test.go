package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pethub/internal/models"
	"pethub/internal/repository"
)

func newChatEnv(t *testing.T) (*testEnv, *ChatService) {
	t.Helper()
	env := newTestEnv(t)
	chat := NewChatService(env.pets, repository.NewConversationRepository(env.db), NewCannedResponder(), nil)
	return env, chat
}

func TestSendMessageRecordsTurn(t *testing.T) {
	env, chat := newChatEnv(t)
	user := env.createUser(t, "chatter@example.com")
	sp := env.speciesByKey(t, "phoenix")
	pet, _ := env.pets.Adopt(context.Background(), user.ID, sp.ID, "Ember")

	result, err := chat.SendMessage(context.Background(), pet.ID, user.ID, "hello there")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if result.Reply.Content == "" {
		t.Error("Expected a non-empty reply")
	}
	if !strings.Contains(result.Reply.Content, "Ember") {
		t.Errorf("Reply %q does not mention the pet name", result.Reply.Content)
	}
	if result.Pet.Bond != 4 {
		t.Errorf("Bond after chat = %.0f, want 4", result.Pet.Bond)
	}

	// The turn lands in both the conversation and the ledger
	history, err := chat.History(pet.ID, user.ID, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History has %d messages, want 2", len(history))
	}
	if history[0].Role != models.RoleUser || history[1].Role != models.RolePet {
		t.Errorf("History roles = %s/%s, want user/pet", history[0].Role, history[1].Role)
	}

	entries, _ := env.pets.Interactions(pet.ID, user.ID)
	if len(entries) != 1 || entries[0].Type != models.InteractionTextChat {
		t.Errorf("Ledger = %+v, want one text_chat entry", entries)
	}
}

func TestSendMessageDeniedForLowTier(t *testing.T) {
	env, chat := newChatEnv(t)
	user := env.createUser(t, "chatter@example.com")
	sp := env.speciesByKey(t, "golden_puppy")
	pet, _ := env.pets.Adopt(context.Background(), user.ID, sp.ID, "")

	_, err := chat.SendMessage(context.Background(), pet.ID, user.ID, "hello")
	if !errors.Is(err, ErrCapabilityDenied) {
		t.Fatalf("SendMessage error = %v, want ErrCapabilityDenied", err)
	}

	// A denied turn leaves no conversation rows
	history, err := chat.History(pet.ID, user.ID, 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History has %d messages after denial, want 0", len(history))
	}
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	env, chat := newChatEnv(t)
	user := env.createUser(t, "chatter@example.com")
	sp := env.speciesByKey(t, "phoenix")
	pet, _ := env.pets.Adopt(context.Background(), user.ID, sp.ID, "")

	for _, message := range []string{"", "   "} {
		if _, err := chat.SendMessage(context.Background(), pet.ID, user.ID, message); !errors.Is(err, ErrInvalidInteraction) {
			t.Errorf("SendMessage(%q) error = %v, want ErrInvalidInteraction", message, err)
		}
	}
}

func TestRememberRequestStoresMemoryFact(t *testing.T) {
	env, chat := newChatEnv(t)
	user := env.createUser(t, "chatter@example.com")
	sp := env.speciesByKey(t, "phoenix")
	pet, _ := env.pets.Adopt(context.Background(), user.ID, sp.ID, "")

	if _, err := chat.SendMessage(context.Background(), pet.ID, user.ID, "remember my sister is called June"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	facts, _, err := env.pets.GetMemory(pet.ID, user.ID)
	if err != nil {
		t.Fatalf("GetMemory failed: %v", err)
	}
	if len(facts) != 1 || facts[0] != "my sister is called June" {
		t.Errorf("Facts = %v, want the remembered fact", facts)
	}

	// Repeating the request does not duplicate the fact
	if _, err := chat.SendMessage(context.Background(), pet.ID, user.ID, "remember my sister is called June"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	facts, _, _ = env.pets.GetMemory(pet.ID, user.ID)
	if len(facts) != 1 {
		t.Errorf("Facts = %v, want one entry", facts)
	}
}

func TestCannedResponderIsDeterministic(t *testing.T) {
	responder := NewCannedResponder()
	pet := &models.Pet{
		Name:    "Ember",
		Species: &models.Species{Tier: models.TierAI, Personality: map[string]float64{"warm": 0.9}},
	}

	first, err := responder.Reply(context.Background(), pet, nil, "tell me a story")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	second, err := responder.Reply(context.Background(), pet, nil, "tell me a story")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if first.Content != second.Content || first.Emotion != second.Emotion {
		t.Errorf("Replies differ for identical input: %q vs %q", first.Content, second.Content)
	}
}

func TestCannedResponderComfortsOnSadness(t *testing.T) {
	responder := NewCannedResponder()
	pet := &models.Pet{
		Name:    "Ember",
		Species: &models.Species{Tier: models.TierAI},
	}

	reply, err := responder.Reply(context.Background(), pet, nil, "I feel really sad today")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if reply.Emotion != "caring" {
		t.Errorf("Emotion = %q, want caring", reply.Emotion)
	}
}
