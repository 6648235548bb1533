package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pethub/internal/service"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Error != "teapot" {
		t.Fatalf("expected error 'teapot', got %q", resp.Error)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithServiceErrorStatusCodes(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{service.ErrPetNotFound, http.StatusNotFound},
		{service.ErrSpeciesNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrInvalidInteraction, http.StatusBadRequest},
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrCapabilityDenied, http.StatusForbidden},
		{service.ErrNotTherapist, http.StatusForbidden},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrTokenInvalid, http.StatusUnauthorized},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, tt.err, "test")
			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestRespondWithServiceErrorHandlesWrappedErrors(t *testing.T) {
	recorder := httptest.NewRecorder()
	wrapped := fmt.Errorf("%w: text_chat requires tier 3", service.ErrCapabilityDenied)

	respondWithServiceError(recorder, wrapped, "test")

	if recorder.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusForbidden)
	}
}

func TestRespondWithServiceErrorHidesInternalDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	respondWithServiceError(recorder, errors.New("dial tcp 10.0.0.5: connection refused"), "test")

	var resp errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if strings.Contains(resp.Error, "10.0.0.5") {
		t.Errorf("response leaked internal detail: %q", resp.Error)
	}
}
