// Package otp issues and checks the one-time codes used to confirm a new
// email address before a profile update.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

// Store keeps at most one pending code per email.
type Store interface {
	// Save replaces any pending code for email.
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Verify checks code and, on a match, marks email as verified.
	Verify(ctx context.Context, email, code string) (bool, error)
	// Verified reports whether email passed Verify and has not expired.
	Verified(ctx context.Context, email string) (bool, error)
	Clear(ctx context.Context, email string) error
}

// entry is the stored state of one code.
type entry struct {
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GenerateCode returns a uniformly random six digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
