package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pethub/internal/models"
	"pethub/internal/repository"
	"pethub/internal/security"
	"pethub/internal/validation"
)

// AuthService handles account registration and API token lifecycle.
// Tokens are HS256 JWTs whose jti is recorded so individual tokens can
// be revoked before expiry.
type AuthService struct {
	userRepo      *repository.UserRepository
	signingKey    []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, signingKey string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		signingKey:    []byte(signingKey),
		tokenDuration: tokenDuration,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

// Register creates a new user account
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// OAuthLogin signs a user in via an external identity provider, creating
// or linking the local account as needed.
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (string, *models.User, error) {
	if subject == "" || email == "" {
		return "", nil, fmt.Errorf("oauth identity is incomplete")
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up oauth identity: %w", err)
	}

	if user == nil {
		user, err = s.userRepo.GetUserByEmail(email)
		if err != nil {
			return "", nil, fmt.Errorf("failed to look up user: %w", err)
		}
		if user == nil {
			// Password logins stay disabled for OAuth-only accounts
			// because the stored hash is random and never shown.
			placeholder, err := security.HashPassword(randomSecret())
			if err != nil {
				return "", nil, fmt.Errorf("failed to create placeholder password: %w", err)
			}
			if name == "" {
				name = email
			}
			user, err = s.userRepo.CreateUser(email, placeholder, name)
			if err != nil {
				return "", nil, fmt.Errorf("failed to create user: %w", err)
			}
		}
		if err := s.userRepo.LinkOAuthProvider(user.ID, provider, subject); err != nil {
			return "", nil, fmt.Errorf("failed to link oauth provider: %w", err)
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken verifies a token's signature, expiry and revocation
// status and returns the account it belongs to.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	record, err := s.userRepo.GetAuthToken(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if record == nil || record.Revoked || record.IsExpired() {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByID(record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	return user, nil
}

// Logout revokes the presented token
func (s *AuthService) Logout(tokenString string) error {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return ErrTokenInvalid
	}
	if err := s.userRepo.RevokeAuthToken(claims.ID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// CleanupExpiredTokens removes token records past their expiry
func (s *AuthService) CleanupExpiredTokens() error {
	return s.userRepo.DeleteExpiredAuthTokens()
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	jti := uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(s.tokenDuration)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.userRepo.CreateAuthToken(jti, user.ID, expiresAt); err != nil {
		return "", fmt.Errorf("failed to record token: %w", err)
	}
	return signed, nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
