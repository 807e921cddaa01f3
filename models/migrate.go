package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every storefront table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Cart{},
		&CartItem{},
		&Wishlist{},
		&WishlistItem{},
		&Order{},
	)
}
