package models

import "testing"

func TestInteractionTypeValid(t *testing.T) {
	valid := []InteractionType{
		InteractionTouch, InteractionBreathing, InteractionGame,
		InteractionVoiceChat, InteractionTextChat,
	}
	for _, it := range valid {
		if !it.Valid() {
			t.Errorf("%q should be valid", it)
		}
	}

	invalid := []InteractionType{"", "cuddle", "TOUCH", "text chat"}
	for _, it := range invalid {
		if it.Valid() {
			t.Errorf("%q should be invalid", it)
		}
	}
}

func TestNewPetDefaults(t *testing.T) {
	pet := NewPetDefaults()

	if pet.Happiness != 50 || pet.Energy != 100 || pet.Bond != 0 || pet.Hunger != 0 {
		t.Errorf("Stats = %.0f/%.0f/%.0f/%.0f, want 50/100/0/0",
			pet.Happiness, pet.Energy, pet.Bond, pet.Hunger)
	}
	if pet.XP != 0 || pet.Level != 1 || pet.StreakDays != 0 {
		t.Errorf("XP/Level/Streak = %d/%d/%d, want 0/1/0", pet.XP, pet.Level, pet.StreakDays)
	}
	if !pet.IsActive {
		t.Error("New pet should be active")
	}
}

func TestMoodTracksHappiness(t *testing.T) {
	pet := Pet{Happiness: 72.5}
	if pet.Mood() != 72.5 {
		t.Errorf("Mood() = %v, want 72.5", pet.Mood())
	}
}
