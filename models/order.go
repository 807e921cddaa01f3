package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // confirmed by the store
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // customer received the item
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is one purchased line item. A checkout of N cart items produces N
// rows sharing the shipping address and payment method.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"_id"`
	UserEmail       string      `gorm:"index;not null" json:"userEmail"`
	ProductID       string      `gorm:"not null" json:"productId"`
	Name            string      `gorm:"not null" json:"name"`
	Price           string      `gorm:"not null" json:"price"`
	Quantity        int         `gorm:"not null" json:"quantity"`
	Image           string      `json:"image"`
	ShippingAddress string      `gorm:"not null" json:"shippingAddress"`
	PaymentMethod   string      `gorm:"not null" json:"paymentMethod"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// ParsePrice reads a display price such as "$1,299.50".
func ParsePrice(price string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(price))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", price, err)
	}
	return v, nil
}

// LineTotal is price times quantity; unparseable prices count as zero.
func (o Order) LineTotal() float64 {
	p, err := ParsePrice(o.Price)
	if err != nil {
		return 0
	}
	return p * float64(o.Quantity)
}

// UserOrders returns the user's orders, newest first.
func UserOrders(db *gorm.DB, email string) ([]Order, error) {
	orders := []Order{}
	if err := db.Where("user_email = ?", email).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}
