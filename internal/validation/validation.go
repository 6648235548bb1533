package validation

import (
	"errors"
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks that email looks like a deliverable address
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegexp.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidateName checks a user display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("name is required")
	}
	if len(trimmed) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	return nil
}

// ValidatePetName checks a pet display name. Pets always have a name; the
// lifecycle service derives a default from the species when none is given.
func ValidatePetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("pet name is required")
	}
	if len(trimmed) > 50 {
		return errors.New("pet name must be at most 50 characters")
	}
	return nil
}

// ValidateMoodScore checks a mood check-in score
func ValidateMoodScore(score int) error {
	if score < 1 || score > 10 {
		return errors.New("mood score must be between 1 and 10")
	}
	return nil
}
