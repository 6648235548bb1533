package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"pethub/internal/database"
)

// BackupData represents the complete database backup structure. Auth
// tokens are deliberately excluded; sessions do not survive a restore.
type BackupData struct {
	Version      string               `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Users        []UserBackup         `json:"users"`
	Species      []SpeciesBackup      `json:"species"`
	Pets         []PetBackup          `json:"pets"`
	Interactions []InteractionBackup  `json:"interactions"`
	Messages     []ConversationBackup `json:"conversations"`
	MoodLogs     []MoodLogBackup      `json:"mood_logs"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsTherapist   bool      `json:"is_therapist"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SpeciesBackup represents a catalog row for backup
type SpeciesBackup struct {
	ID              int64     `json:"id"`
	SpeciesKey      string    `json:"species_key"`
	DisplayName     string    `json:"display_name"`
	Tier            int       `json:"tier"`
	Environment     string    `json:"environment"`
	Personality     string    `json:"personality"`
	TherapeuticTags string    `json:"therapeutic_tags"`
	AISystemPrompt  string    `json:"ai_system_prompt"`
	RiveAssetURL    string    `json:"rive_asset_url"`
	PriceMonthly    int       `json:"price_monthly"`
	PriceOwn        int       `json:"price_own"`
	CreatedAt       time.Time `json:"created_at"`
}

// PetBackup represents a live pet row for backup
type PetBackup struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	SpeciesID        int64     `json:"species_id"`
	PetName          string    `json:"pet_name"`
	AccessType       string    `json:"access_type"`
	PrescribedBy     *int64    `json:"prescribed_by"`
	RxReason         string    `json:"rx_reason"`
	Happiness        float64   `json:"happiness"`
	Energy           float64   `json:"energy"`
	Bond             float64   `json:"bond"`
	Hunger           float64   `json:"hunger"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"`
	StreakDays       int       `json:"streak_days"`
	MemoryFacts      string    `json:"memory_facts"`
	EmotionalProfile string    `json:"emotional_profile"`
	IsActive         bool      `json:"is_active"`
	AdoptedAt        time.Time `json:"adopted_at"`
	LastSync         time.Time `json:"last_sync"`
}

// InteractionBackup represents one ledger entry for backup
type InteractionBackup struct {
	ID           int64     `json:"id"`
	PetID        int64     `json:"user_pet_id"`
	Type         string    `json:"interaction_type"`
	DurationSecs int       `json:"duration_secs"`
	XPEarned     int       `json:"xp_earned"`
	MoodBefore   *float64  `json:"mood_before"`
	MoodAfter    *float64  `json:"mood_after"`
	Metadata     string    `json:"metadata_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConversationBackup represents one chat turn for backup
type ConversationBackup struct {
	ID         int64     `json:"id"`
	PetID      int64     `json:"user_pet_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Emotion    string    `json:"emotion"`
	TokensUsed int       `json:"tokens_used"`
	CostPaisa  int       `json:"cost_paisa"`
	CreatedAt  time.Time `json:"created_at"`
}

// MoodLogBackup represents a mood check-in for backup
type MoodLogBackup struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MoodScore int       `json:"mood_score"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportSpecies(backup); err != nil {
		return fmt.Errorf("failed to export species: %w", err)
	}
	if err := s.exportPets(backup); err != nil {
		return fmt.Errorf("failed to export pets: %w", err)
	}
	if err := s.exportInteractions(backup); err != nil {
		return fmt.Errorf("failed to export interactions: %w", err)
	}
	if err := s.exportConversations(backup); err != nil {
		return fmt.Errorf("failed to export conversations: %w", err)
	}
	if err := s.exportMoodLogs(backup); err != nil {
		return fmt.Errorf("failed to export mood logs: %w", err)
	}

	log.Printf("Exported: %d users, %d species, %d pets, %d interactions, %d conversations, %d mood logs",
		len(backup.Users), len(backup.Species), len(backup.Pets),
		len(backup.Interactions), len(backup.Messages), len(backup.MoodLogs))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importSpecies(backup.Species); err != nil {
		return fmt.Errorf("failed to import species: %w", err)
	}
	if err := s.importPets(backup.Pets); err != nil {
		return fmt.Errorf("failed to import pets: %w", err)
	}
	if err := s.importInteractions(backup.Interactions); err != nil {
		return fmt.Errorf("failed to import interactions: %w", err)
	}
	if err := s.importConversations(backup.Messages); err != nil {
		return fmt.Errorf("failed to import conversations: %w", err)
	}
	if err := s.importMoodLogs(backup.MoodLogs); err != nil {
		return fmt.Errorf("failed to import mood logs: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_therapist, created_at, updated_at FROM users ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.IsTherapist, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportSpecies(backup *BackupData) error {
	query := "SELECT id, species_key, display_name, tier, COALESCE(environment, ''), COALESCE(personality, ''), COALESCE(therapeutic_tags, ''), COALESCE(ai_system_prompt, ''), COALESCE(rive_asset_url, ''), COALESCE(price_monthly, 0), COALESCE(price_own, 0), created_at FROM pet_species ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sp SpeciesBackup
		if err := rows.Scan(&sp.ID, &sp.SpeciesKey, &sp.DisplayName, &sp.Tier, &sp.Environment, &sp.Personality, &sp.TherapeuticTags, &sp.AISystemPrompt, &sp.RiveAssetURL, &sp.PriceMonthly, &sp.PriceOwn, &sp.CreatedAt); err != nil {
			return err
		}
		backup.Species = append(backup.Species, sp)
	}
	return rows.Err()
}

func (s *BackupService) exportPets(backup *BackupData) error {
	query := "SELECT id, user_id, species_id, pet_name, access_type, prescribed_by, COALESCE(rx_reason, ''), happiness, energy, bond, hunger, xp, level, streak_days, COALESCE(memory_facts, ''), COALESCE(emotional_profile, ''), is_active, adopted_at, last_sync FROM user_pets ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PetBackup
		if err := rows.Scan(&p.ID, &p.UserID, &p.SpeciesID, &p.PetName, &p.AccessType, &p.PrescribedBy, &p.RxReason, &p.Happiness, &p.Energy, &p.Bond, &p.Hunger, &p.XP, &p.Level, &p.StreakDays, &p.MemoryFacts, &p.EmotionalProfile, &p.IsActive, &p.AdoptedAt, &p.LastSync); err != nil {
			return err
		}
		backup.Pets = append(backup.Pets, p)
	}
	return rows.Err()
}

func (s *BackupService) exportInteractions(backup *BackupData) error {
	query := "SELECT id, user_pet_id, interaction_type, duration_secs, xp_earned, mood_before, mood_after, COALESCE(metadata_json, ''), created_at FROM pet_interactions ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var in InteractionBackup
		if err := rows.Scan(&in.ID, &in.PetID, &in.Type, &in.DurationSecs, &in.XPEarned, &in.MoodBefore, &in.MoodAfter, &in.Metadata, &in.CreatedAt); err != nil {
			return err
		}
		backup.Interactions = append(backup.Interactions, in)
	}
	return rows.Err()
}

func (s *BackupService) exportConversations(backup *BackupData) error {
	query := "SELECT id, user_pet_id, role, content, COALESCE(emotion, ''), tokens_used, cost_paisa, created_at FROM pet_conversations ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m ConversationBackup
		if err := rows.Scan(&m.ID, &m.PetID, &m.Role, &m.Content, &m.Emotion, &m.TokensUsed, &m.CostPaisa, &m.CreatedAt); err != nil {
			return err
		}
		backup.Messages = append(backup.Messages, m)
	}
	return rows.Err()
}

func (s *BackupService) exportMoodLogs(backup *BackupData) error {
	query := "SELECT id, user_id, mood_score, created_at FROM mood_logs ORDER BY id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MoodLogBackup
		if err := rows.Scan(&m.ID, &m.UserID, &m.MoodScore, &m.CreatedAt); err != nil {
			return err
		}
		backup.MoodLogs = append(backup.MoodLogs, m)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := "INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, is_therapist, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name, nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.IsTherapist, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importSpecies(species []SpeciesBackup) error {
	log.Printf("Importing %d species...", len(species))
	for _, sp := range species {
		query := "INSERT INTO pet_species (id, species_key, display_name, tier, environment, personality, therapeutic_tags, ai_system_prompt, rive_asset_url, price_monthly, price_own, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, sp.ID, sp.SpeciesKey, sp.DisplayName, sp.Tier, nullIfEmpty(sp.Environment), nullIfEmpty(sp.Personality), nullIfEmpty(sp.TherapeuticTags), nullIfEmpty(sp.AISystemPrompt), nullIfEmpty(sp.RiveAssetURL), sp.PriceMonthly, sp.PriceOwn, sp.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import species %s: %w", sp.SpeciesKey, err)
		}
	}
	return nil
}

func (s *BackupService) importPets(pets []PetBackup) error {
	log.Printf("Importing %d pets...", len(pets))
	for _, p := range pets {
		var prescribedBy interface{}
		if p.PrescribedBy != nil {
			prescribedBy = *p.PrescribedBy
		}
		query := "INSERT INTO user_pets (id, user_id, species_id, pet_name, access_type, prescribed_by, rx_reason, happiness, energy, bond, hunger, xp, level, streak_days, memory_facts, emotional_profile, is_active, adopted_at, last_sync) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, p.ID, p.UserID, p.SpeciesID, p.PetName, p.AccessType, prescribedBy, nullIfEmpty(p.RxReason), p.Happiness, p.Energy, p.Bond, p.Hunger, p.XP, p.Level, p.StreakDays, nullIfEmpty(p.MemoryFacts), nullIfEmpty(p.EmotionalProfile), p.IsActive, p.AdoptedAt, p.LastSync)
		if err != nil {
			return fmt.Errorf("failed to import pet %d: %w", p.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importInteractions(interactions []InteractionBackup) error {
	log.Printf("Importing %d interactions...", len(interactions))
	for _, in := range interactions {
		var moodBefore, moodAfter interface{}
		if in.MoodBefore != nil {
			moodBefore = *in.MoodBefore
		}
		if in.MoodAfter != nil {
			moodAfter = *in.MoodAfter
		}
		query := "INSERT INTO pet_interactions (id, user_pet_id, interaction_type, duration_secs, xp_earned, mood_before, mood_after, metadata_json, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, in.ID, in.PetID, in.Type, in.DurationSecs, in.XPEarned, moodBefore, moodAfter, nullIfEmpty(in.Metadata), in.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import interaction %d: %w", in.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importConversations(messages []ConversationBackup) error {
	log.Printf("Importing %d conversations...", len(messages))
	for _, m := range messages {
		query := "INSERT INTO pet_conversations (id, user_pet_id, role, content, emotion, tokens_used, cost_paisa, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, m.ID, m.PetID, m.Role, m.Content, nullIfEmpty(m.Emotion), m.TokensUsed, m.CostPaisa, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import conversation %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importMoodLogs(logs []MoodLogBackup) error {
	log.Printf("Importing %d mood logs...", len(logs))
	for _, m := range logs {
		query := "INSERT INTO mood_logs (id, user_id, mood_score, created_at) VALUES (?, ?, ?, ?)"
		_, err := s.db.Exec(query, m.ID, m.UserID, m.MoodScore, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import mood log %d: %w", m.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
