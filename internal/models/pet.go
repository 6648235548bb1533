package models

import "time"

// AccessType describes how a user came to hold a pet.
type AccessType string

const (
	AccessFree         AccessType = "free"
	AccessSubscription AccessType = "subscription"
	AccessOwned        AccessType = "owned"
	AccessPrescribed   AccessType = "prescribed"
)

// Stat bounds. Every live stat is clamped into [StatMin, StatMax].
const (
	StatMin = 0.0
	StatMax = 100.0
)

// Pet is a user's live instance of a species. The stats, XP, level and
// streak fields are only ever written by the lifecycle service; level is
// always re-derived from XP, never accepted from callers.
type Pet struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	SpeciesID    int64      `json:"species_id"`
	Name         string     `json:"pet_name"`
	AccessType   AccessType `json:"access_type"`
	PrescribedBy *int64     `json:"prescribed_by,omitempty"`
	RxReason     string     `json:"rx_reason,omitempty"`

	Happiness  float64 `json:"happiness"`
	Energy     float64 `json:"energy"`
	Bond       float64 `json:"bond"`
	Hunger     float64 `json:"hunger"`
	XP         int     `json:"xp"`
	Level      int     `json:"level"`
	StreakDays int     `json:"streak_days"`

	// Tier 3 only; empty for lower tiers.
	MemoryFacts      []string           `json:"memory_facts,omitempty"`
	EmotionalProfile map[string]float64 `json:"emotional_profile,omitempty"`

	IsActive  bool      `json:"is_active"`
	AdoptedAt time.Time `json:"adopted_at"`
	LastSync  time.Time `json:"last_sync"`

	Species *Species `json:"species,omitempty"`
}

// NewPetDefaults returns the initial live state for a freshly adopted pet.
func NewPetDefaults() Pet {
	return Pet{
		Happiness:  50,
		Energy:     100,
		Bond:       0,
		Hunger:     0,
		XP:         0,
		Level:      1,
		StreakDays: 0,
		IsActive:   true,
	}
}

// Mood is the single mood score reported in interaction snapshots. Happiness
// is the mood axis the UI displays, so that is what gets snapshotted.
func (p *Pet) Mood() float64 {
	return p.Happiness
}
