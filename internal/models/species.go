package models

import "time"

// Species tiers. Tier 3 unlocks the AI chat and voice features.
const (
	TierStarter = 1
	TierPremium = 2
	TierAI      = 3
)

// Species represents an adoptable pet archetype. Species rows are reference
// data: seeded once, read-only afterwards.
type Species struct {
	ID              int64              `json:"id"`
	SpeciesKey      string             `json:"species_key"`
	DisplayName     string             `json:"display_name"`
	Tier            int                `json:"tier"`
	Environment     string             `json:"environment,omitempty"`
	Personality     map[string]float64 `json:"personality,omitempty"`
	TherapeuticTags []string           `json:"therapeutic_tags,omitempty"`
	AISystemPrompt  string             `json:"-"`
	RiveAssetURL    string             `json:"rive_asset_url,omitempty"`
	PriceMonthly    int                `json:"price_monthly,omitempty"` // paisa
	PriceOwn        int                `json:"price_own,omitempty"`     // paisa
	CreatedAt       time.Time          `json:"created_at"`
}
