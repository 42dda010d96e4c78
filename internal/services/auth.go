package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"solara/internal/domain"
	"solara/internal/metrics"
	"solara/internal/util"
	"solara/pkg/errors"
)

// LoginInput holds login credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult holds the issued token.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LogoutResult acknowledges a logout.
type LogoutResult struct {
	Message string `json:"message"`
}

// AuthService authenticates dashboard users and validates their tokens.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login checks credentials and returns a signed JWT
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	password := strings.TrimSpace(in.Password)

	log.Printf("[AUTH] Login attempt for user: %s", username)

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		metrics.RecordAuthAttempt(false)
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] Login failed: user '%s' not found", username)
			return nil, errors.New(errors.ErrCodeUnauthorized, "incorrect username or password")
		}
		log.Printf("[AUTH] Login failed: database error for user '%s': %v", username, err)
		return nil, errors.Wrap(errors.ErrCodeInternalError, "login failed", err)
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		log.Printf("[AUTH] Login failed: invalid password for user '%s'", username)
		metrics.RecordAuthAttempt(false)
		return nil, errors.New(errors.ErrCodeUnauthorized, "incorrect username or password")
	}

	if !user.IsActive {
		log.Printf("[AUTH] Login failed: user '%s' is inactive", username)
		metrics.RecordAuthAttempt(false)
		return nil, errors.New(errors.ErrCodeUnauthorized, "user account is inactive")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		log.Printf("[AUTH] Failed to record last login for user '%s': %v", username, err)
	}

	token, err := util.GenerateToken(&user)
	if err != nil {
		log.Printf("[AUTH] Login failed: token generation error for user '%s': %v", username, err)
		return nil, errors.Wrap(errors.ErrCodeInternalError, "failed to generate token", err)
	}

	log.Printf("[AUTH] Login successful for user '%s' (id=%d, admin=%v)", username, user.ID, user.IsAdmin)
	metrics.RecordAuthAttempt(true)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// Logout acknowledges a logout. Tokens are short-lived and stateless, so
// nothing is revoked server-side.
func (s *AuthService) Logout(ctx context.Context, user *domain.User) *LogoutResult {
	log.Printf("[AUTH] Logout for user: %s (id=%d)", user.Username, user.ID)
	return &LogoutResult{Message: "Successfully logged out"}
}

// Authenticate validates a bearer token and returns the active user behind
// it. Used by the transport middleware guarding the admin read path.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := util.ValidateToken(token)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token")
	}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", claims.Username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.ErrCodeUnauthorized, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, errors.New(errors.ErrCodeUnauthorized, "user account is inactive")
	}

	return &user, nil
}
