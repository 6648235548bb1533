package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pethub/internal/service"
)

// MoodHandler records standalone mood check-ins
type MoodHandler struct {
	moodService *service.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService *service.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

type moodRequest struct {
	MoodScore int `json:"mood_score"`
}

// Record handles POST /api/mood
func (h *MoodHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", "", err)
		return
	}

	entry, err := h.moodService.Record(user.ID, req.MoodScore)
	if err != nil {
		respondWithServiceError(w, err, "Failed to record mood")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// History handles GET /api/mood
func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.moodService.History(user.ID, limit)
	if err != nil {
		respondWithServiceError(w, err, "Failed to load mood history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
