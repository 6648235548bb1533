package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pethub/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes payload as a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps the service error taxonomy onto HTTP
// status codes. Unrecognized errors are treated as persistence failures
// and logged without leaking detail to the client.
func respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrPetNotFound),
		errors.Is(err, service.ErrSpeciesNotFound),
		errors.Is(err, service.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidInteraction),
		errors.Is(err, service.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCapabilityDenied),
		errors.Is(err, service.ErrNotTherapist):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenInvalid):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error", logMsg, err)
	}
}
