package repository

import (
	"database/sql"
	"fmt"

	"pethub/internal/database"
	"pethub/internal/models"
)

// InteractionRepository handles the append-only interaction ledger. There
// is deliberately no update or delete: once an interaction is recorded it
// is immutable, and the ordered ledger is what pet state replays from.
type InteractionRepository struct {
	db database.DBTX
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *database.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InteractionRepository) WithTx(tx *database.Tx) *InteractionRepository {
	return &InteractionRepository{db: tx}
}

// Append records one interaction and returns its ledger ID.
func (r *InteractionRepository) Append(in *models.Interaction) (int64, error) {
	metadata, err := marshalJSON(in.Metadata)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO pet_interactions
			(user_pet_id, interaction_type, duration_secs, xp_earned,
			 mood_before, mood_after, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		in.PetID, string(in.Type), in.DurationSecs, in.XPEarned,
		in.MoodBefore, in.MoodAfter, metadata, in.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append interaction: %w", err)
	}

	in.ID = id
	return id, nil
}

const interactionColumns = `
	id, user_pet_id, interaction_type, duration_secs, xp_earned,
	mood_before, mood_after, metadata_json, created_at
`

// ListByPet retrieves a pet's full ledger in replay order: creation time
// ascending, insertion id breaking ties.
func (r *InteractionRepository) ListByPet(petID int64) ([]models.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM pet_interactions
		WHERE user_pet_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []models.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, *in)
	}

	return interactions, rows.Err()
}

// GetLatestByPet returns the most recent ledger entry for a pet, or
// (nil, nil) for an empty ledger. The streak update reads the previous
// interaction day from here rather than from a second stored field.
func (r *InteractionRepository) GetLatestByPet(petID int64) (*models.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM pet_interactions
		WHERE user_pet_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	row := r.db.QueryRow(query, petID)
	in, err := scanInteraction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest interaction: %w", err)
	}
	return in, nil
}

func scanInteraction(scan func(...interface{}) error) (*models.Interaction, error) {
	in := &models.Interaction{}
	var (
		itype                 string
		moodBefore, moodAfter sql.NullFloat64
		metadata              sql.NullString
	)

	err := scan(
		&in.ID, &in.PetID, &itype, &in.DurationSecs, &in.XPEarned,
		&moodBefore, &moodAfter, &metadata, &in.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	in.Type = models.InteractionType(itype)
	if moodBefore.Valid {
		in.MoodBefore = &moodBefore.Float64
	}
	if moodAfter.Valid {
		in.MoodAfter = &moodAfter.Float64
	}
	if err := unmarshalJSON(metadata, &in.Metadata); err != nil {
		return nil, err
	}

	return in, nil
}
