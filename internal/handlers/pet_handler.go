package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pethub/internal/models"
	"pethub/internal/service"
)

// PetHandler exposes the pet lifecycle over HTTP
type PetHandler struct {
	petService *service.PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(petService *service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

// Catalog handles GET /api/pets/catalog
func (h *PetHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	species, err := h.petService.Catalog()
	if err != nil {
		respondWithServiceError(w, err, "Failed to list catalog")
		return
	}
	respondJSON(w, http.StatusOK, species)
}

type adoptRequest struct {
	SpeciesID int64  `json:"species_id"`
	PetName   string `json:"pet_name"`
}

// Adopt handles POST /api/pets/adopt
func (h *PetHandler) Adopt(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req adoptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	pet, err := h.petService.Adopt(r.Context(), user.ID, req.SpeciesID, req.PetName)
	if err != nil {
		respondWithServiceError(w, err, "Adoption failed")
		return
	}

	respondJSON(w, http.StatusCreated, pet)
}

// List handles GET /api/pets
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	pets, err := h.petService.ListPets(user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list pets")
		return
	}
	respondJSON(w, http.StatusOK, pets)
}

// State handles GET /api/pets/{id}/state
func (h *PetHandler) State(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	pet, err := h.petService.GetState(petID, user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get pet state")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

type interactionRequest struct {
	InteractionType string                 `json:"interaction_type"`
	DurationSecs    int                    `json:"duration_secs"`
	XPEarned        int                    `json:"xp_earned"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

type interactionResponse struct {
	Pet         *models.Pet         `json:"pet"`
	Interaction *models.Interaction `json:"interaction"`
}

// RecordInteraction handles POST /api/pets/{id}/interactions
func (h *PetHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	pet, interaction, err := h.petService.RecordInteraction(petID, user.ID, models.Interaction{
		Type:         models.InteractionType(req.InteractionType),
		DurationSecs: req.DurationSecs,
		XPEarned:     req.XPEarned,
		Metadata:     req.Metadata,
	})
	if err != nil {
		respondWithServiceError(w, err, "Failed to record interaction")
		return
	}

	respondJSON(w, http.StatusCreated, interactionResponse{Pet: pet, Interaction: interaction})
}

// Interactions handles GET /api/pets/{id}/interactions
func (h *PetHandler) Interactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	entries, err := h.petService.Interactions(petID, user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to list interactions")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Replay handles GET /api/pets/{id}/replay. It recomputes the pet's
// state from the ledger so operators can audit drift.
func (h *PetHandler) Replay(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	pet, err := h.petService.ReplayState(petID, user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to replay pet state")
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

type memoryResponse struct {
	MemoryFacts      []string           `json:"memory_facts"`
	EmotionalProfile map[string]float64 `json:"emotional_profile"`
}

// Memory handles GET /api/pets/{id}/memory
func (h *PetHandler) Memory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	facts, profile, err := h.petService.GetMemory(petID, user.ID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get pet memory")
		return
	}
	respondJSON(w, http.StatusOK, memoryResponse{MemoryFacts: facts, EmotionalProfile: profile})
}

type memoryRequest struct {
	MemoryFacts      []string           `json:"memory_facts"`
	EmotionalProfile map[string]float64 `json:"emotional_profile"`
}

// UpdateMemory handles PUT /api/pets/{id}/memory
func (h *PetHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	var req memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	if err := h.petService.UpdateMemory(petID, user.ID, req.MemoryFacts, req.EmotionalProfile); err != nil {
		respondWithServiceError(w, err, "Failed to update pet memory")
		return
	}
	respondJSON(w, http.StatusOK, memoryResponse{MemoryFacts: req.MemoryFacts, EmotionalProfile: req.EmotionalProfile})
}

// Deactivate handles DELETE /api/pets/{id}
func (h *PetHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	petID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid pet id", "", err)
		return
	}

	if err := h.petService.Deactivate(petID, user.ID); err != nil {
		respondWithServiceError(w, err, "Failed to deactivate pet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type prescribeRequest struct {
	PatientID int64  `json:"patient_id"`
	SpeciesID int64  `json:"species_id"`
	PetName   string `json:"pet_name"`
	Reason    string `json:"reason"`
}

// Prescribe handles POST /api/pets/prescribe
func (h *PetHandler) Prescribe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req prescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	pet, err := h.petService.Prescribe(r.Context(), user.ID, req.PatientID, req.SpeciesID, req.PetName, req.Reason)
	if err != nil {
		respondWithServiceError(w, err, "Prescription failed")
		return
	}
	respondJSON(w, http.StatusCreated, pet)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
