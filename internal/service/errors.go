package service

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes; repositories and the engine wrap their own failures so
// callers can test with errors.Is.
var (
	ErrValidation         = errors.New("invalid input")
	ErrSpeciesNotFound    = errors.New("species not found")
	ErrPetNotFound        = errors.New("pet not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInteraction = errors.New("invalid interaction")
	ErrCapabilityDenied   = errors.New("capability denied for species tier")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or revoked")
	ErrNotTherapist       = errors.New("prescriber must be a therapist")
	ErrPetInactive        = errors.New("pet is deactivated")
)
