package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pethub/internal/database"
	"pethub/internal/models"
)

// PetRepository handles user pet database operations
type PetRepository struct {
	db database.DBTX
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *database.DB) *PetRepository {
	return &PetRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PetRepository) WithTx(tx *database.Tx) *PetRepository {
	return &PetRepository{db: tx}
}

// Create inserts a newly adopted pet and returns it with its ID assigned.
func (r *PetRepository) Create(pet *models.Pet) (*models.Pet, error) {
	memory, err := marshalJSON(pet.MemoryFacts)
	if err != nil {
		return nil, err
	}
	profile, err := marshalJSON(pet.EmotionalProfile)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO user_pets
			(user_id, species_id, pet_name, access_type, prescribed_by,
			 rx_reason, happiness, energy, bond, hunger, xp, level,
			 streak_days, memory_facts, emotional_profile, is_active,
			 adopted_at, last_sync)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		pet.UserID, pet.SpeciesID, pet.Name, string(pet.AccessType),
		pet.PrescribedBy, pet.RxReason, pet.Happiness, pet.Energy, pet.Bond,
		pet.Hunger, pet.XP, pet.Level, pet.StreakDays, memory, profile,
		pet.IsActive, pet.AdoptedAt, pet.LastSync,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	pet.ID = id
	return pet, nil
}

const petColumns = `
	p.id, p.user_id, p.species_id, p.pet_name, p.access_type,
	p.prescribed_by, COALESCE(p.rx_reason, ''),
	p.happiness, p.energy, p.bond, p.hunger, p.xp, p.level, p.streak_days,
	p.memory_facts, p.emotional_profile, p.is_active, p.adopted_at, p.last_sync
`

// GetByID retrieves a pet with its species attached; (nil, nil) when unknown.
func (r *PetRepository) GetByID(id int64) (*models.Pet, error) {
	query := `
		SELECT ` + petColumns + `, ` + speciesColumns + `
		FROM user_pets p
		JOIN pet_species ON pet_species.id = p.species_id
		WHERE p.id = ?
	`
	row := r.db.QueryRow(query, id)
	pet, err := scanPet(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// ListByUser retrieves all active pets owned by a user, oldest first.
func (r *PetRepository) ListByUser(userID int64) ([]models.Pet, error) {
	query := `
		SELECT ` + petColumns + `, ` + speciesColumns + `
		FROM user_pets p
		JOIN pet_species ON pet_species.id = p.species_id
		WHERE p.user_id = ? AND p.is_active = ?
		ORDER BY p.adopted_at, p.id
	`
	rows, err := r.db.Query(query, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		pet, err := scanPet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		pets = append(pets, *pet)
	}

	return pets, rows.Err()
}

// UpdateState persists the live-state fields the engines produce. The API
// deliberately has no way to write an arbitrary stat: callers hand over a
// whole engine-produced pet value.
func (r *PetRepository) UpdateState(pet *models.Pet) error {
	query := `
		UPDATE user_pets
		SET happiness = ?, energy = ?, bond = ?, hunger = ?,
		    xp = ?, level = ?, streak_days = ?, last_sync = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		pet.Happiness, pet.Energy, pet.Bond, pet.Hunger,
		pet.XP, pet.Level, pet.StreakDays, pet.LastSync, pet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pet state: %w", err)
	}
	return nil
}

// UpdateMemory persists the tier-3 memory fields.
func (r *PetRepository) UpdateMemory(petID int64, facts []string, profile map[string]float64) error {
	memory, err := marshalJSON(facts)
	if err != nil {
		return err
	}
	emotional, err := marshalJSON(profile)
	if err != nil {
		return err
	}

	query := "UPDATE user_pets SET memory_facts = ?, emotional_profile = ? WHERE id = ?"
	if _, err := r.db.Exec(query, memory, emotional, petID); err != nil {
		return fmt.Errorf("failed to update pet memory: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a pet. Pets are never hard-deleted; the
// interaction ledger must stay replayable.
func (r *PetRepository) Deactivate(petID int64) error {
	query := "UPDATE user_pets SET is_active = ? WHERE id = ?"
	if _, err := r.db.Exec(query, false, petID); err != nil {
		return fmt.Errorf("failed to deactivate pet: %w", err)
	}
	return nil
}

// SetPrescription marks a pet as prescribed by a therapist.
func (r *PetRepository) SetPrescription(petID, therapistID int64, reason string) error {
	query := `
		UPDATE user_pets
		SET access_type = ?, prescribed_by = ?, rx_reason = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, string(models.AccessPrescribed), therapistID, reason, petID)
	if err != nil {
		return fmt.Errorf("failed to set prescription: %w", err)
	}
	return nil
}

func scanPet(scan func(...interface{}) error) (*models.Pet, error) {
	pet := &models.Pet{}
	species := &models.Species{}
	var (
		accessType          string
		prescribedBy        sql.NullInt64
		memory, profile     sql.NullString
		personality, tags   sql.NullString
		adoptedAt, lastSync time.Time
	)

	err := scan(
		&pet.ID, &pet.UserID, &pet.SpeciesID, &pet.Name, &accessType,
		&prescribedBy, &pet.RxReason,
		&pet.Happiness, &pet.Energy, &pet.Bond, &pet.Hunger,
		&pet.XP, &pet.Level, &pet.StreakDays,
		&memory, &profile, &pet.IsActive, &adoptedAt, &lastSync,
		&species.ID, &species.SpeciesKey, &species.DisplayName, &species.Tier,
		&species.Environment, &personality, &tags,
		&species.AISystemPrompt, &species.RiveAssetURL,
		&species.PriceMonthly, &species.PriceOwn, &species.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	pet.AccessType = models.AccessType(accessType)
	pet.AdoptedAt = adoptedAt
	pet.LastSync = lastSync
	if prescribedBy.Valid {
		pet.PrescribedBy = &prescribedBy.Int64
	}

	if err := unmarshalJSON(memory, &pet.MemoryFacts); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(profile, &pet.EmotionalProfile); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(personality, &species.Personality); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(tags, &species.TherapeuticTags); err != nil {
		return nil, err
	}

	pet.Species = species
	return pet, nil
}
