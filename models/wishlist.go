package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Wishlist struct {
	WishlistID uint           `gorm:"primaryKey"`
	UserEmail  string         `gorm:"uniqueIndex;not null"`
	Items      []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type WishlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	WishlistID uint      `gorm:"index" json:"-"`
	ProductID  string    `gorm:"not null" json:"id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	Image      string    `json:"image"`
	AddedAt    time.Time `json:"-"`
}

// LoadWishlist locks the user's wishlist row and loads its items.
func LoadWishlist(tx *gorm.DB, email string) (*Wishlist, error) {
	var list Wishlist
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_email = ?", email).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("wishlist_id = ?", list.WishlistID).Order("id ASC").Find(&list.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load wishlist items: %w", err)
	}
	return &list, nil
}

func LoadOrCreateWishlist(tx *gorm.DB, email string) (*Wishlist, error) {
	list, err := LoadWishlist(tx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		list = &Wishlist{UserEmail: email}
		if err := tx.Create(list).Error; err != nil {
			return nil, fmt.Errorf("failed to create wishlist: %w", err)
		}
		return list, nil
	}
	return list, err
}

func WishlistItems(db *gorm.DB, email string) ([]WishlistItem, error) {
	var list Wishlist
	err := db.Preload("Items", orderedItems).Where("user_email = ?", email).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []WishlistItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	if list.Items == nil {
		return []WishlistItem{}, nil
	}
	return list.Items, nil
}

func (w *Wishlist) FindItem(productID string) int {
	for i, item := range w.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
