package repository

import (
	"database/sql"
	"fmt"

	"pethub/internal/database"
	"pethub/internal/models"
)

// SpeciesRepository handles read access to the pet species catalog.
// Species rows are reference data: Seed writes them once, everything else
// only reads.
type SpeciesRepository struct {
	db *database.DB
}

// NewSpeciesRepository creates a new species repository
func NewSpeciesRepository(db *database.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

const speciesColumns = `
	pet_species.id, pet_species.species_key, pet_species.display_name,
	pet_species.tier, COALESCE(pet_species.environment, ''),
	pet_species.personality, pet_species.therapeutic_tags,
	COALESCE(pet_species.ai_system_prompt, ''),
	COALESCE(pet_species.rive_asset_url, ''),
	COALESCE(pet_species.price_monthly, 0),
	COALESCE(pet_species.price_own, 0), pet_species.created_at
`

// GetByID retrieves a species by ID; (nil, nil) when unknown.
func (r *SpeciesRepository) GetByID(id int64) (*models.Species, error) {
	query := "SELECT " + speciesColumns + " FROM pet_species WHERE id = ?"
	return r.scanSpecies(r.db.QueryRow(query, id))
}

// GetByKey retrieves a species by its stable key; (nil, nil) when unknown.
func (r *SpeciesRepository) GetByKey(key string) (*models.Species, error) {
	query := "SELECT " + speciesColumns + " FROM pet_species WHERE species_key = ?"
	return r.scanSpecies(r.db.QueryRow(query, key))
}

// List retrieves the full catalog ordered by tier then name.
func (r *SpeciesRepository) List() ([]models.Species, error) {
	query := "SELECT " + speciesColumns + " FROM pet_species ORDER BY tier, display_name"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var species []models.Species
	for rows.Next() {
		s, err := scanSpeciesRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		species = append(species, *s)
	}

	return species, rows.Err()
}

// Seed inserts the given species definitions, skipping any species_key that
// already exists. Seeding is an explicit bootstrap step, never a side
// effect of a read.
func (r *SpeciesRepository) Seed(defaults []models.Species) (int, error) {
	inserted := 0
	for _, s := range defaults {
		existing, err := r.GetByKey(s.SpeciesKey)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}

		personality, err := marshalJSON(s.Personality)
		if err != nil {
			return inserted, err
		}
		tags, err := marshalJSON(s.TherapeuticTags)
		if err != nil {
			return inserted, err
		}

		query := `
			INSERT INTO pet_species
				(species_key, display_name, tier, environment, personality,
				 therapeutic_tags, ai_system_prompt, rive_asset_url,
				 price_monthly, price_own)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := r.db.Exec(query,
			s.SpeciesKey, s.DisplayName, s.Tier, s.Environment, personality,
			tags, s.AISystemPrompt, s.RiveAssetURL, s.PriceMonthly, s.PriceOwn,
		); err != nil {
			return inserted, fmt.Errorf("failed to seed species %s: %w", s.SpeciesKey, err)
		}
		inserted++
	}
	return inserted, nil
}

func (r *SpeciesRepository) scanSpecies(row *sql.Row) (*models.Species, error) {
	s, err := scanSpeciesRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func scanSpeciesRow(scan func(...interface{}) error) (*models.Species, error) {
	s := &models.Species{}
	var personality, tags sql.NullString

	err := scan(
		&s.ID,
		&s.SpeciesKey,
		&s.DisplayName,
		&s.Tier,
		&s.Environment,
		&personality,
		&tags,
		&s.AISystemPrompt,
		&s.RiveAssetURL,
		&s.PriceMonthly,
		&s.PriceOwn,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(personality, &s.Personality); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(tags, &s.TherapeuticTags); err != nil {
		return nil, err
	}

	return s, nil
}
