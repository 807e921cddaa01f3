package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/models"
)

var (
	ErrTokenRequired  = apperr.New(apperr.Unauthenticated, "Session token required")
	ErrInvalidSession = apperr.New(apperr.InvalidSession, "Invalid or expired session")
)

// NewToken returns an opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// CreateSession stores a new session for email expiring after ttl.
func CreateSession(tx *gorm.DB, email string, ttl time.Duration) (*models.Session, error) {
	now := time.Now()
	session := models.Session{
		Token:     NewToken(),
		UserEmail: email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// ValidateSession resolves a token to the owning email. Expiry is fixed at
// creation and never extended here.
func ValidateSession(ctx context.Context, db *gorm.DB, token string) (string, error) {
	if token == "" {
		return "", ErrTokenRequired
	}

	var session models.Session
	err := db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidSession
	}
	if err != nil {
		return "", apperr.Wrap(apperr.ServerError, "failed to load session", err)
	}
	if session.Expired(time.Now()) {
		return "", ErrInvalidSession
	}
	return session.UserEmail, nil
}

// RevokeSession deletes one session. A missing token is not an error.
func RevokeSession(db *gorm.DB, token string) error {
	if err := db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session for email.
func RevokeAll(tx *gorm.DB, email string) error {
	if err := tx.Where("user_email = ?", email).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
