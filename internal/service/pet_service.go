package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pethub/internal/database"
	"pethub/internal/engine"
	"pethub/internal/models"
	"pethub/internal/repository"
	"pethub/internal/validation"
)

// PetService owns the pet lifecycle: adoption, state reads with decay
// catch-up, interaction recording and the append-only ledger. All stat,
// XP, level and streak writes funnel through here; nothing else mutates
// a pet's live state.
type PetService struct {
	db           *database.DB
	pets         *repository.PetRepository
	species      *repository.SpeciesRepository
	interactions *repository.InteractionRepository
	users        *repository.UserRepository
	email        *EmailService

	// Mutations to the same pet are serialized in-process so that
	// decay plus interaction apply as one unit per request.
	mu       sync.Mutex
	petLocks map[int64]*sync.Mutex

	now func() time.Time
}

// NewPetService creates a new pet service
func NewPetService(db *database.DB, pets *repository.PetRepository, species *repository.SpeciesRepository, interactions *repository.InteractionRepository, users *repository.UserRepository, email *EmailService) *PetService {
	return &PetService{
		db:           db,
		pets:         pets,
		species:      species,
		interactions: interactions,
		users:        users,
		email:        email,
		petLocks:     make(map[int64]*sync.Mutex),
		now:          time.Now,
	}
}

func (s *PetService) lockPet(petID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.petLocks[petID]
	if !ok {
		lock = &sync.Mutex{}
		s.petLocks[petID] = lock
	}
	return lock
}

// Catalog lists every adoptable species
func (s *PetService) Catalog() ([]models.Species, error) {
	return s.species.List()
}

// GetSpecies looks up one species by id
func (s *PetService) GetSpecies(speciesID int64) (*models.Species, error) {
	sp, err := s.species.GetByID(speciesID)
	if err != nil {
		return nil, fmt.Errorf("failed to get species: %w", err)
	}
	if sp == nil {
		return nil, ErrSpeciesNotFound
	}
	return sp, nil
}

// Adopt creates a pet of the given species for a user. A blank name
// gets the default "My <species>" name. Starter-tier species are free;
// higher tiers are recorded as owned purchases.
func (s *PetService) Adopt(ctx context.Context, userID, speciesID int64, name string) (*models.Pet, error) {
	sp, err := s.GetSpecies(speciesID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = "My " + sp.DisplayName
	}
	if err := validation.ValidatePetName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	accessType := models.AccessOwned
	if sp.Tier == models.TierStarter {
		accessType = models.AccessFree
	}

	now := s.now()
	pet := models.NewPetDefaults()
	pet.UserID = userID
	pet.SpeciesID = sp.ID
	pet.Name = name
	pet.AccessType = accessType
	pet.AdoptedAt = now
	pet.LastSync = now

	created, err := s.pets.Create(&pet)
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	created.Species = sp

	if s.email != nil && s.email.IsEnabled() {
		if user, err := s.users.GetUserByID(userID); err == nil && user != nil {
			go func() {
				if err := s.email.SendAdoptionEmail(context.Background(), user.Email, user.Name, created.Name, sp.DisplayName); err != nil {
					log.Printf("Failed to send adoption email: %v", err)
				}
			}()
		}
	}

	return created, nil
}

// ListPets lists a user's active pets
func (s *PetService) ListPets(userID int64) ([]models.Pet, error) {
	return s.pets.ListByUser(userID)
}

// GetState returns a pet's current live state. Decay accrued since the
// last sync is applied and persisted before the state is returned, so
// reads are also catch-up points.
func (s *PetService) GetState(petID, userID int64) (*models.Pet, error) {
	lock := s.lockPet(petID)
	lock.Lock()
	defer lock.Unlock()

	pet, err := s.loadOwnedPet(petID, userID)
	if err != nil {
		return nil, err
	}

	decayed := engine.ApplyDecay(*pet, s.now())
	if !decayed.LastSync.Equal(pet.LastSync) {
		if err := s.pets.UpdateState(&decayed); err != nil {
			return nil, fmt.Errorf("failed to persist decay: %w", err)
		}
	}
	decayed.Species = pet.Species
	return &decayed, nil
}

// RecordInteraction validates, gates and applies one interaction, then
// atomically appends it to the ledger and persists the resulting state.
// A denied or invalid interaction leaves both the pet and the ledger
// untouched.
func (s *PetService) RecordInteraction(petID, userID int64, in models.Interaction) (*models.Pet, *models.Interaction, error) {
	lock := s.lockPet(petID)
	lock.Lock()
	defer lock.Unlock()

	pet, err := s.loadOwnedPet(petID, userID)
	if err != nil {
		return nil, nil, err
	}

	if action, gated := engine.GatedAction(in.Type); gated {
		if err := engine.Authorize(pet.Species.Tier, action); err != nil {
			if errors.Is(err, engine.ErrTierInsufficient) {
				return nil, nil, fmt.Errorf("%w: %s requires tier %d", ErrCapabilityDenied, in.Type, models.TierAI)
			}
			return nil, nil, err
		}
	}

	now := s.now()
	decayed := engine.ApplyDecay(*pet, now)
	moodBefore := decayed.Mood()

	next, err := engine.ApplyInteraction(decayed, in, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInteraction, err)
	}

	latest, err := s.interactions.GetLatestByPet(petID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest interaction: %w", err)
	}
	var lastAt time.Time
	if latest != nil {
		lastAt = latest.CreatedAt
	}
	next.StreakDays = engine.NextStreak(pet.StreakDays, lastAt, latest != nil, now)

	// The ledger stores the capped XP so replaying it reproduces the
	// same totals.
	if cap := engine.XPCap(in.Type); in.XPEarned > cap {
		in.XPEarned = cap
	}
	moodAfter := next.Mood()
	in.PetID = petID
	in.MoodBefore = &moodBefore
	in.MoodAfter = &moodAfter
	in.CreatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.interactions.WithTx(tx).Append(&in); err != nil {
		return nil, nil, fmt.Errorf("failed to append interaction: %w", err)
	}
	if err := s.pets.WithTx(tx).UpdateState(&next); err != nil {
		return nil, nil, fmt.Errorf("failed to update pet state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit interaction: %w", err)
	}

	next.Species = pet.Species
	return &next, &in, nil
}

// Interactions returns a pet's ledger in replay order
func (s *PetService) Interactions(petID, userID int64) ([]models.Interaction, error) {
	if _, err := s.loadOwnedPet(petID, userID); err != nil {
		return nil, err
	}
	return s.interactions.ListByPet(petID)
}

// ReplayState folds the stat engine over a pet's full ledger starting
// from the adoption defaults. The result should match the persisted
// state; a mismatch means the ledger and the live row have drifted.
func (s *PetService) ReplayState(petID, userID int64) (*models.Pet, error) {
	pet, err := s.loadOwnedPet(petID, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.interactions.ListByPet(petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	replayed := models.NewPetDefaults()
	replayed.ID = pet.ID
	replayed.UserID = pet.UserID
	replayed.SpeciesID = pet.SpeciesID
	replayed.Name = pet.Name
	replayed.AccessType = pet.AccessType
	replayed.AdoptedAt = pet.AdoptedAt
	replayed.LastSync = pet.AdoptedAt

	var lastAt time.Time
	hasLast := false
	for _, entry := range entries {
		replayed = engine.ApplyDecay(replayed, entry.CreatedAt)
		replayed, err = engine.ApplyInteraction(replayed, entry, entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ledger entry %d does not replay: %w", entry.ID, err)
		}
		replayed.StreakDays = engine.NextStreak(replayed.StreakDays, lastAt, hasLast, entry.CreatedAt)
		lastAt = entry.CreatedAt
		hasLast = true
	}

	replayed = engine.ApplyDecay(replayed, s.now())
	replayed.Species = pet.Species
	return &replayed, nil
}

// GetMemory returns a pet's long-term memory. Memory only exists for
// tier 3 species; lower tiers get empty containers, not an error.
func (s *PetService) GetMemory(petID, userID int64) ([]string, map[string]float64, error) {
	pet, err := s.loadOwnedPet(petID, userID)
	if err != nil {
		return nil, nil, err
	}
	if pet.Species.Tier < models.TierAI {
		return []string{}, map[string]float64{}, nil
	}
	facts := pet.MemoryFacts
	if facts == nil {
		facts = []string{}
	}
	profile := pet.EmotionalProfile
	if profile == nil {
		profile = map[string]float64{}
	}
	return facts, profile, nil
}

// UpdateMemory replaces a tier 3 pet's memory facts and emotional profile
func (s *PetService) UpdateMemory(petID, userID int64, facts []string, profile map[string]float64) error {
	pet, err := s.loadOwnedPet(petID, userID)
	if err != nil {
		return err
	}
	if pet.Species.Tier < models.TierAI {
		return fmt.Errorf("%w: memory requires tier %d", ErrCapabilityDenied, models.TierAI)
	}
	if err := s.pets.UpdateMemory(petID, facts, profile); err != nil {
		return fmt.Errorf("failed to update memory: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a pet. The ledger is retained.
func (s *PetService) Deactivate(petID, userID int64) error {
	lock := s.lockPet(petID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.loadOwnedPet(petID, userID); err != nil {
		return err
	}
	if err := s.pets.Deactivate(petID); err != nil {
		return fmt.Errorf("failed to deactivate pet: %w", err)
	}

	// Release the lock entry; the pet is inactive now, so any caller
	// racing this delete reloads the pet and gets ErrPetNotFound.
	s.mu.Lock()
	delete(s.petLocks, petID)
	s.mu.Unlock()
	return nil
}

// Prescribe adopts a pet on behalf of a patient. Only therapist accounts
// may prescribe; the patient is notified by email.
func (s *PetService) Prescribe(ctx context.Context, therapistID, patientID, speciesID int64, petName, reason string) (*models.Pet, error) {
	therapist, err := s.users.GetUserByID(therapistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}
	if therapist == nil || !therapist.IsTherapist {
		return nil, ErrNotTherapist
	}

	patient, err := s.users.GetUserByID(patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	sp, err := s.GetSpecies(speciesID)
	if err != nil {
		return nil, err
	}

	if petName == "" {
		petName = "My " + sp.DisplayName
	}
	if err := validation.ValidatePetName(petName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	pet := models.NewPetDefaults()
	pet.UserID = patient.ID
	pet.SpeciesID = sp.ID
	pet.Name = petName
	pet.AccessType = models.AccessPrescribed
	pet.PrescribedBy = &therapist.ID
	pet.RxReason = reason
	pet.AdoptedAt = now
	pet.LastSync = now

	created, err := s.pets.Create(&pet)
	if err != nil {
		return nil, fmt.Errorf("failed to create prescribed pet: %w", err)
	}
	created.Species = sp

	if s.email != nil && s.email.IsEnabled() {
		go func() {
			if err := s.email.SendPrescriptionEmail(context.Background(), patient.Email, patient.Name, therapist.Name, created.Name); err != nil {
				log.Printf("Failed to send prescription email: %v", err)
			}
		}()
	}

	return created, nil
}

// loadOwnedPet fetches a pet and checks it belongs to userID. A pet that
// does not exist, belongs to someone else or has been deactivated is
// reported as not found.
func (s *PetService) loadOwnedPet(petID, userID int64) (*models.Pet, error) {
	pet, err := s.pets.GetByID(petID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	if pet == nil || pet.UserID != userID || !pet.IsActive {
		return nil, ErrPetNotFound
	}
	return pet, nil
}
