package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"pethub/internal/audio"
	"pethub/internal/models"
	"pethub/internal/repository"
)

// ChatReply is a pet's side of one conversation turn.
type ChatReply struct {
	Content    string
	Emotion    string
	TokensUsed int
	CostPaisa  int
}

// Responder generates the pet's reply for a conversation turn. The
// default implementation is rule-based; an LLM-backed one satisfies the
// same interface.
type Responder interface {
	Reply(ctx context.Context, pet *models.Pet, history []models.ConversationMessage, message string) (ChatReply, error)
}

// historyWindow is how many recent turns are handed to the responder.
const historyWindow = 20

// ChatService runs tier 3 text and voice conversations. Every turn is
// recorded as a ledger interaction first, so the capability gate and the
// stat engine apply before any reply is generated.
type ChatService struct {
	pets          *PetService
	conversations *repository.ConversationRepository
	responder     Responder
	speech        *audio.SpeechService
}

// NewChatService creates a new chat service
func NewChatService(pets *PetService, conversations *repository.ConversationRepository, responder Responder, speech *audio.SpeechService) *ChatService {
	return &ChatService{
		pets:          pets,
		conversations: conversations,
		responder:     responder,
		speech:        speech,
	}
}

// ChatResult bundles the reply with the pet state after the turn.
type ChatResult struct {
	Reply         ChatReply
	Pet           *models.Pet
	AudioFilename string
}

// SendMessage runs one text chat turn
func (s *ChatService) SendMessage(ctx context.Context, petID, userID int64, message string) (*ChatResult, error) {
	return s.converse(ctx, petID, userID, message, models.InteractionTextChat)
}

// SendVoiceMessage runs one voice chat turn and synthesizes the reply to audio
func (s *ChatService) SendVoiceMessage(ctx context.Context, petID, userID int64, message string) (*ChatResult, error) {
	result, err := s.converse(ctx, petID, userID, message, models.InteractionVoiceChat)
	if err != nil {
		return nil, err
	}

	if s.speech != nil {
		filename, err := s.speech.Synthesize(ctx, result.Reply.Content)
		if err != nil {
			// The turn already happened; the reply is still usable as text.
			return result, nil
		}
		result.AudioFilename = filename
	}
	return result, nil
}

// History returns a pet's recent conversation, oldest first
func (s *ChatService) History(petID, userID int64, limit int) ([]models.ConversationMessage, error) {
	if _, err := s.pets.loadOwnedPet(petID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = historyWindow
	}
	return s.conversations.ListByPet(petID, limit)
}

func (s *ChatService) converse(ctx context.Context, petID, userID int64, message string, interactionType models.InteractionType) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInteraction)
	}

	// The gate, decay and ledger all run inside RecordInteraction; a
	// denied turn produces no conversation rows either.
	pet, _, err := s.pets.RecordInteraction(petID, userID, models.Interaction{
		Type:     interactionType,
		XPEarned: chatTurnXP,
	})
	if err != nil {
		return nil, err
	}

	history, err := s.conversations.ListByPet(petID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	if _, err := s.conversations.Append(&models.ConversationMessage{
		PetID:   petID,
		Role:    models.RoleUser,
		Content: message,
	}); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	reply, err := s.responder.Reply(ctx, pet, history, message)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	if _, err := s.conversations.Append(&models.ConversationMessage{
		PetID:      petID,
		Role:       models.RolePet,
		Content:    reply.Content,
		Emotion:    reply.Emotion,
		TokensUsed: reply.TokensUsed,
		CostPaisa:  reply.CostPaisa,
	}); err != nil {
		return nil, fmt.Errorf("failed to record pet reply: %w", err)
	}

	s.rememberFromMessage(petID, userID, message)

	return &ChatResult{Reply: reply, Pet: pet}, nil
}

// chatTurnXP is the XP requested per chat turn; the engine caps it per
// interaction type.
const chatTurnXP = 10

// rememberFromMessage stores an explicit "remember ..." request as a
// long-term memory fact. Failures are ignored; memory is best-effort.
func (s *ChatService) rememberFromMessage(petID, userID int64, message string) {
	lower := strings.ToLower(message)
	if !strings.HasPrefix(lower, "remember ") {
		return
	}
	fact := strings.TrimSpace(message[len("remember "):])
	if fact == "" {
		return
	}

	facts, profile, err := s.pets.GetMemory(petID, userID)
	if err != nil {
		return
	}
	for _, existing := range facts {
		if strings.EqualFold(existing, fact) {
			return
		}
	}
	_ = s.pets.UpdateMemory(petID, userID, append(facts, fact), profile)
}

// CannedResponder is the built-in rule-based responder. Replies are
// keyed off simple message cues and tinted by the species personality;
// the same message to the same pet always gets the same reply.
type CannedResponder struct{}

// NewCannedResponder creates the default responder
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

var errNoPetLoaded = errors.New("responder needs a pet with species loaded")

// Reply implements Responder
func (r *CannedResponder) Reply(_ context.Context, pet *models.Pet, history []models.ConversationMessage, message string) (ChatReply, error) {
	if pet == nil || pet.Species == nil {
		return ChatReply{}, errNoPetLoaded
	}

	lower := strings.ToLower(message)
	name := pet.Name

	switch {
	case containsAny(lower, "sad", "lonely", "depressed", "anxious", "scared"):
		return ChatReply{
			Content: fmt.Sprintf("%s nuzzles up close. \"I'm right here with you. Want to try a breathing exercise together?\"", name),
			Emotion: "caring",
		}, nil
	case containsAny(lower, "hello", "hi ", "hey"):
		greeting := pick(lower, []string{
			fmt.Sprintf("\"Hi! I missed you!\" %s bounces excitedly.", name),
			fmt.Sprintf("%s perks up. \"You're back! Tell me everything.\"", name),
		})
		return ChatReply{Content: greeting, Emotion: "happy"}, nil
	case containsAny(lower, "hungry", "food", "eat"):
		return ChatReply{
			Content: fmt.Sprintf("\"Snacks? Did someone say snacks?\" %s's ears twitch hopefully.", name),
			Emotion: "excited",
		}, nil
	case strings.HasPrefix(lower, "remember "):
		return ChatReply{
			Content: fmt.Sprintf("%s nods solemnly. \"Got it. I won't forget.\"", name),
			Emotion: "attentive",
		}, nil
	case len(history) == 0:
		return ChatReply{
			Content: fmt.Sprintf("%s tilts their head at you. \"This is our first real talk! What should we chat about?\"", name),
			Emotion: "curious",
		}, nil
	}

	if playfulness := pet.Species.Personality["playfulness"]; playfulness > 0.7 {
		return ChatReply{
			Content: pick(lower, []string{
				fmt.Sprintf("%s does a little spin. \"Interesting! And then what happened?\"", name),
				fmt.Sprintf("\"Ooh, tell me more!\" %s wags furiously.", name),
			}),
			Emotion: "playful",
		}, nil
	}

	return ChatReply{
		Content: pick(lower, []string{
			fmt.Sprintf("%s listens carefully. \"Mm. Tell me more about that.\"", name),
			fmt.Sprintf("%s blinks slowly. \"I hear you. How did that make you feel?\"", name),
		}),
		Emotion: "calm",
	}, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// pick chooses a variant deterministically from the message text
func pick(seed string, options []string) string {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return options[int(h.Sum32())%len(options)]
}
