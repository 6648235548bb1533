package models

import "time"

// User represents an account in the system
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	IsTherapist   bool      `json:"is_therapist"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuthToken tracks an issued API token by its JWT ID so tokens can be
// revoked before their natural expiry.
type AuthToken struct {
	ID        string // jti claim
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// IsExpired checks if the token has expired
func (t *AuthToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
