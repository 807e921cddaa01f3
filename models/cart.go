package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey"`
	UserEmail string     `gorm:"uniqueIndex;not null"`                          // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"` // ordered by ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CartID    uint      `gorm:"index" json:"-"`
	ProductID string    `gorm:"not null" json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"` // display string, e.g. "$1,299.00"
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"-"`
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// LoadCart locks the user's cart row and loads its items. It returns
// gorm.ErrRecordNotFound when the user has no cart.
func LoadCart(tx *gorm.DB, email string) (*Cart, error) {
	var cart Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_email = ?", email).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("cart_id = ?", cart.CartID).Order("id ASC").Find(&cart.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return &cart, nil
}

// LoadOrCreateCart is LoadCart that creates an empty cart on first use.
func LoadOrCreateCart(tx *gorm.DB, email string) (*Cart, error) {
	cart, err := LoadCart(tx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = &Cart{UserEmail: email}
		if err := tx.Create(cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return cart, nil
	}
	return cart, err
}

// CartItems returns the user's items, empty when there is no cart.
func CartItems(db *gorm.DB, email string) ([]CartItem, error) {
	var cart Cart
	err := db.Preload("Items", orderedItems).Where("user_email = ?", email).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.Items == nil {
		return []CartItem{}, nil
	}
	return cart.Items, nil
}

// FindItem returns the index of productID in the cart, or -1.
func (c *Cart) FindItem(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// ClearCart removes every item from the user's cart, keeping the cart row.
func ClearCart(tx *gorm.DB, email string) error {
	sub := tx.Model(&Cart{}).Select("cart_id").Where("user_email = ?", email)
	if err := tx.Where("cart_id IN (?)", sub).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
