package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"pethub/internal/models"
)

func basePet() models.Pet {
	pet := models.NewPetDefaults()
	pet.LastSync = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return pet
}

func TestApplyInteractionRejectsInvalidInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		interaction models.Interaction
	}{
		{
			name:        "negative duration",
			interaction: models.Interaction{Type: models.InteractionTouch, DurationSecs: -1},
		},
		{
			name:        "negative xp",
			interaction: models.Interaction{Type: models.InteractionGame, XPEarned: -10},
		},
		{
			name:        "unknown type",
			interaction: models.Interaction{Type: "belly_rub"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := basePet()
			after, err := ApplyInteraction(before, tt.interaction, now)
			if !errors.Is(err, ErrInvalidInteraction) {
				t.Fatalf("expected ErrInvalidInteraction, got %v", err)
			}
			if !reflect.DeepEqual(after, before) {
				t.Errorf("rejected interaction mutated state: %+v -> %+v", before, after)
			}
		})
	}
}

func TestApplyInteractionStatDeltas(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		interaction   models.Interaction
		wantHappiness float64
		wantEnergy    float64
		wantBond      float64
		wantHunger    float64
	}{
		{
			name:          "touch raises bond and happiness, eases hunger",
			interaction:   models.Interaction{Type: models.InteractionTouch},
			wantHappiness: 53,
			wantEnergy:    100,
			wantBond:      2,
			wantHunger:    0, // clamped at floor
		},
		{
			name:          "breathing raises energy and happiness",
			interaction:   models.Interaction{Type: models.InteractionBreathing},
			wantHappiness: 55,
			wantEnergy:    100, // clamped at ceiling
			wantBond:      0,
			wantHunger:    0,
		},
		{
			name:          "game costs energy and raises hunger with duration",
			interaction:   models.Interaction{Type: models.InteractionGame, DurationSecs: 300},
			wantHappiness: 55,
			wantEnergy:    85,
			wantBond:      3,
			wantHunger:    10,
		},
		{
			name:          "text chat deepens bond",
			interaction:   models.Interaction{Type: models.InteractionTextChat},
			wantHappiness: 52,
			wantEnergy:    100,
			wantBond:      4,
			wantHunger:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyInteraction(basePet(), tt.interaction, now)
			if err != nil {
				t.Fatalf("ApplyInteraction() error = %v", err)
			}
			if got.Happiness != tt.wantHappiness {
				t.Errorf("happiness = %v, want %v", got.Happiness, tt.wantHappiness)
			}
			if got.Energy != tt.wantEnergy {
				t.Errorf("energy = %v, want %v", got.Energy, tt.wantEnergy)
			}
			if got.Bond != tt.wantBond {
				t.Errorf("bond = %v, want %v", got.Bond, tt.wantBond)
			}
			if got.Hunger != tt.wantHunger {
				t.Errorf("hunger = %v, want %v", got.Hunger, tt.wantHunger)
			}
			if !got.LastSync.Equal(now) {
				t.Errorf("last sync = %v, want %v", got.LastSync, now)
			}
		})
	}
}

func TestApplyInteractionClampsExtremeDurations(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	// A week-long "game" must still leave every stat inside [0,100].
	in := models.Interaction{
		Type:         models.InteractionGame,
		DurationSecs: 7 * 24 * 3600,
		XPEarned:     1 << 30,
	}

	got, err := ApplyInteraction(basePet(), in, now)
	if err != nil {
		t.Fatalf("ApplyInteraction() error = %v", err)
	}

	stats := map[string]float64{
		"happiness": got.Happiness,
		"energy":    got.Energy,
		"bond":      got.Bond,
		"hunger":    got.Hunger,
	}
	for name, v := range stats {
		if v < models.StatMin || v > models.StatMax {
			t.Errorf("%s = %v, outside [0,100]", name, v)
		}
	}
}

func TestApplyInteractionCapsXPPerType(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		itype  models.InteractionType
		earned int
		wantXP int
	}{
		{models.InteractionTouch, 5, 5},
		{models.InteractionTouch, 500, 10},
		{models.InteractionBreathing, 500, 25},
		{models.InteractionGame, 500, 50},
		{models.InteractionVoiceChat, 500, 40},
		{models.InteractionTextChat, 500, 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.itype), func(t *testing.T) {
			got, err := ApplyInteraction(basePet(), models.Interaction{Type: tt.itype, XPEarned: tt.earned}, now)
			if err != nil {
				t.Fatalf("ApplyInteraction() error = %v", err)
			}
			if got.XP != tt.wantXP {
				t.Errorf("xp = %d, want %d", got.XP, tt.wantXP)
			}
			if got.Level != DeriveLevel(got.XP) {
				t.Errorf("level = %d, not derived from xp %d", got.Level, got.XP)
			}
		})
	}
}

func TestApplyDecay(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		elapsed       time.Duration
		wantHappiness float64
		wantEnergy    float64
		wantHunger    float64
		wantSynced    time.Duration // how far LastSync should have advanced
	}{
		{
			name:          "under one interval is a no-op",
			elapsed:       45 * time.Minute,
			wantHappiness: 50,
			wantEnergy:    100,
			wantHunger:    0,
			wantSynced:    0,
		},
		{
			name:          "one interval",
			elapsed:       time.Hour + 10*time.Minute,
			wantHappiness: 48,
			wantEnergy:    97,
			wantHunger:    4,
			wantSynced:    time.Hour,
		},
		{
			name:          "three intervals",
			elapsed:       3*time.Hour + 59*time.Minute,
			wantHappiness: 44,
			wantEnergy:    91,
			wantHunger:    12,
			wantSynced:    3 * time.Hour,
		},
		{
			name:          "long absence clamps at the bounds",
			elapsed:       90 * 24 * time.Hour,
			wantHappiness: 0,
			wantEnergy:    0,
			wantHunger:    100,
			wantSynced:    90 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pet := basePet()
			pet.LastSync = start

			got := ApplyDecay(pet, start.Add(tt.elapsed))
			if got.Happiness != tt.wantHappiness {
				t.Errorf("happiness = %v, want %v", got.Happiness, tt.wantHappiness)
			}
			if got.Energy != tt.wantEnergy {
				t.Errorf("energy = %v, want %v", got.Energy, tt.wantEnergy)
			}
			if got.Hunger != tt.wantHunger {
				t.Errorf("hunger = %v, want %v", got.Hunger, tt.wantHunger)
			}
			if want := start.Add(tt.wantSynced); !got.LastSync.Equal(want) {
				t.Errorf("last sync = %v, want %v", got.LastSync, want)
			}
		})
	}
}

func TestApplyDecayIsIdempotentAcrossSplits(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5*time.Hour + 30*time.Minute)

	pet := basePet()
	pet.LastSync = start

	// One shot.
	once := ApplyDecay(pet, end)

	// Same span, caught up in two reads plus an immediate re-read.
	twice := ApplyDecay(pet, start.Add(2*time.Hour+15*time.Minute))
	twice = ApplyDecay(twice, end)
	twice = ApplyDecay(twice, end)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("split decay diverged:\n one-shot %+v\n split    %+v", once, twice)
	}
}
