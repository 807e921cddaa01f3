package models

import "time"

type Session struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;not null"`
	UserEmail string    `gorm:"index;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
}

// Expired reports whether the session is unusable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
