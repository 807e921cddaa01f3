package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const DefaultProfileImage = "/images/v2.jpg"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	Password     string    `gorm:"not null" json:"-"` // bcrypt hash
	ProfileImage string    `gorm:"default:'/images/v2.jpg'" json:"profileImage"`
	// UploadedImage is the last file stored by an upload. Only it is ever
	// removed from the image store.
	UploadedImage string    `json:"-"`
	CreatedAt     time.Time `json:"-"`
}

// FindUserByEmail returns gorm.ErrRecordNotFound when no user owns the email.
func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether an account other than exceptEmail owns email.
func EmailTaken(db *gorm.DB, email, exceptEmail string) (bool, error) {
	var count int64
	err := db.Model(&User{}).
		Where("email = ? AND email <> ?", email, exceptEmail).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// RekeyUser moves everything owned by oldEmail to newEmail. Callers run it
// inside a transaction.
func RekeyUser(tx *gorm.DB, oldEmail, newEmail string) error {
	if err := tx.Model(&User{}).Where("email = ?", oldEmail).Update("email", newEmail).Error; err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}
	for _, m := range []any{&Session{}, &Cart{}, &Wishlist{}, &Order{}} {
		if err := tx.Model(m).Where("user_email = ?", oldEmail).Update("user_email", newEmail).Error; err != nil {
			return fmt.Errorf("failed to move %T: %w", m, err)
		}
	}
	return nil
}
