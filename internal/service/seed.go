package service

import "pethub/internal/models"

// DefaultSpecies is the catalog seeded into a fresh database. Prices
// are in paisa; species without prices are free or bundle-only.
func DefaultSpecies() []models.Species {
	return []models.Species{
		{
			SpeciesKey:      "sunny_kitten",
			DisplayName:     "Sunny Kitten",
			Tier:            models.TierStarter,
			Environment:     "Window Sill",
			Personality:     map[string]float64{"playfulness": 0.7, "calm": 0.4},
			TherapeuticTags: []string{"comfort", "companionship"},
		},
		{
			SpeciesKey:      "golden_puppy",
			DisplayName:     "Golden Puppy",
			Tier:            models.TierPremium,
			Environment:     "Sunny Meadow",
			Personality:     map[string]float64{"playfulness": 0.8, "calm": 0.3},
			TherapeuticTags: []string{"anxiety", "joy"},
			PriceMonthly:    9900,
			PriceOwn:        19900,
		},
		{
			SpeciesKey:      "wise_owl",
			DisplayName:     "Wise Owl",
			Tier:            models.TierPremium,
			Environment:     "Forest Library",
			Personality:     map[string]float64{"calm": 0.9, "curious": 0.7},
			TherapeuticTags: []string{"focus", "wisdom"},
			PriceMonthly:    9900,
			PriceOwn:        19900,
		},
		{
			SpeciesKey:      "phoenix",
			DisplayName:     "Phoenix",
			Tier:            models.TierAI,
			Environment:     "Ashen Peaks",
			Personality:     map[string]float64{"warm": 0.9, "resilient": 1.0},
			TherapeuticTags: []string{"rebirth", "hope"},
			AISystemPrompt:  "You are a gentle, ancient phoenix companion. You speak warmly, remember what your human tells you, and encourage them through hard days.",
			PriceMonthly:    19900,
			PriceOwn:        49900,
		},
	}
}

// SeedCatalog inserts any default species missing from the catalog and
// returns how many rows were added.
func (s *PetService) SeedCatalog() (int, error) {
	return s.species.Seed(DefaultSpecies())
}
