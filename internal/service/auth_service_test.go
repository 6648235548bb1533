package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pethub/internal/database"
	"pethub/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewAuthService(repository.NewUserRepository(db), "test-signing-key", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)

	user, err := auth.Register("alice@example.com", "password123", "Alice")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("User = %s/%s, want alice@example.com/Alice", user.Email, user.Name)
	}

	token, loggedIn, err := auth.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("Expected a non-empty token")
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login returned user %d, want %d", loggedIn.ID, user.ID)
	}

	validated, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("ValidateToken returned user %d, want %d", validated.ID, user.ID)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	auth := newAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"invalid email", "not-an-email", "password123", "Alice"},
		{"short password", "alice@example.com", "pass", "Alice"},
		{"empty name", "alice@example.com", "password123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(tt.email, tt.password, tt.userName)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Register error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)

	if _, err := auth.Register("alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := auth.Register("alice@example.com", "differentpass", "Alice Again"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Second register error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	auth := newAuthService(t)

	if _, err := auth.Register("alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := auth.Login("alice@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	auth := newAuthService(t)

	if _, err := auth.Register("alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, _, err := auth.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := auth.Logout(token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := auth.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateToken after logout error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := newAuthService(t)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := auth.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("ValidateToken(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestOAuthLoginCreatesAndLinks(t *testing.T) {
	auth := newAuthService(t)

	// First OAuth login creates the account
	token, user, err := auth.OAuthLogin("google", "subject-1", "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("OAuthLogin failed: %v", err)
	}
	if token == "" || user.Email != "bob@example.com" {
		t.Errorf("OAuthLogin = token %q user %s", token, user.Email)
	}

	// Second login with the same identity reuses it
	_, again, err := auth.OAuthLogin("google", "subject-1", "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("Repeat OAuthLogin failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Repeat OAuthLogin returned user %d, want %d", again.ID, user.ID)
	}

	// Password login stays unusable for the placeholder credential
	if _, _, err := auth.Login("bob@example.com", "anything12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Password login for OAuth account error = %v, want ErrInvalidCredentials", err)
	}
}
