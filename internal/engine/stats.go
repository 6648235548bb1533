package engine

import (
	"errors"
	"fmt"
	"time"

	"pethub/internal/models"
)

// ErrInvalidInteraction is returned when an interaction carries a negative
// duration or negative XP. Nothing is mutated in that case.
var ErrInvalidInteraction = errors.New("invalid interaction")

// DecayInterval is the wall-clock period between decay ticks. A pet left
// alone loses happiness and energy and gets hungrier once per interval.
const DecayInterval = time.Hour

// Per-interval decay deltas.
const (
	decayHappiness = 2.0
	decayEnergy    = 3.0
	decayHunger    = 4.0
)

// XPCap returns the maximum XP a single interaction of the given type may
// award. Anything above the cap is trimmed before being applied or recorded.
func XPCap(t models.InteractionType) int {
	switch t {
	case models.InteractionTouch:
		return 10
	case models.InteractionBreathing:
		return 25
	case models.InteractionGame:
		return 50
	case models.InteractionVoiceChat:
		return 40
	case models.InteractionTextChat:
		return 30
	}
	return 0
}

// ApplyInteraction maps a pet's current state plus one interaction to the
// resulting state. It is a pure transformation: the input pet is taken by
// value and a new value returned. Stats are clamped into [0,100] and
// LastSync is set to now.
//
// Chat interactions must be authorized by the capability gate before this is
// called; the engine itself does not consult the species tier.
func ApplyInteraction(pet models.Pet, in models.Interaction, now time.Time) (models.Pet, error) {
	if !in.Type.Valid() {
		return pet, fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, in.Type)
	}
	if in.DurationSecs < 0 {
		return pet, fmt.Errorf("%w: negative duration %d", ErrInvalidInteraction, in.DurationSecs)
	}
	if in.XPEarned < 0 {
		return pet, fmt.Errorf("%w: negative xp %d", ErrInvalidInteraction, in.XPEarned)
	}

	minutes := float64(in.DurationSecs) / 60.0

	switch in.Type {
	case models.InteractionTouch:
		pet.Bond += 2
		pet.Happiness += 3
		pet.Hunger -= 1
	case models.InteractionBreathing:
		pet.Energy += 4
		pet.Happiness += 5
	case models.InteractionGame:
		pet.Happiness += 5
		pet.Bond += 3
		pet.Hunger += 2 * minutes
		pet.Energy -= 3 * minutes
	case models.InteractionVoiceChat, models.InteractionTextChat:
		pet.Bond += 4
		pet.Happiness += 2
	}

	xp := in.XPEarned
	if cap := XPCap(in.Type); xp > cap {
		xp = cap
	}
	pet.XP += xp
	pet.Level = DeriveLevel(pet.XP)

	clampStats(&pet)
	pet.LastSync = now
	return pet, nil
}

// ApplyDecay applies the time-decay ticks accrued between the pet's last
// sync and now. Decay is idempotent per elapsed interval: only whole
// intervals are applied and LastSync advances by exactly the intervals
// consumed, so calling this twice in a row is a no-op the second time.
func ApplyDecay(pet models.Pet, now time.Time) models.Pet {
	if pet.LastSync.IsZero() || !now.After(pet.LastSync) {
		return pet
	}

	intervals := int(now.Sub(pet.LastSync) / DecayInterval)
	if intervals <= 0 {
		return pet
	}

	n := float64(intervals)
	pet.Happiness -= n * decayHappiness
	pet.Energy -= n * decayEnergy
	pet.Hunger += n * decayHunger

	clampStats(&pet)
	pet.LastSync = pet.LastSync.Add(time.Duration(intervals) * DecayInterval)
	return pet
}

// clampStats forces every live stat back into [0,100]. Clamping, not
// rejection, is the out-of-range policy.
func clampStats(pet *models.Pet) {
	pet.Happiness = clamp(pet.Happiness)
	pet.Energy = clamp(pet.Energy)
	pet.Bond = clamp(pet.Bond)
	pet.Hunger = clamp(pet.Hunger)
}

func clamp(v float64) float64 {
	if v < models.StatMin {
		return models.StatMin
	}
	if v > models.StatMax {
		return models.StatMax
	}
	return v
}
