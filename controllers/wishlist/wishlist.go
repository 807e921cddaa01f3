package wishlistControllers

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/models"
)

var (
	errAlreadyWishlisted = apperr.New(apperr.Conflict, "Item already in wishlist")
	errWishlistEmpty     = apperr.New(apperr.NotFound, "Wishlist not found or empty")
	errItemNotFound      = apperr.New(apperr.NotFound, "Item not found in wishlist")
	errProductIDEmpty    = apperr.New(apperr.ValidationError, "productId is required")
)

func AddToWishlist(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		product, err := req.BindProduct()
		if err != nil {
			return nil, err
		}

		var items []models.WishlistItem
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			list, err := models.LoadOrCreateWishlist(tx, req.Email)
			if err != nil {
				return err
			}
			if list.FindItem(product.ID.String()) >= 0 {
				return errAlreadyWishlisted
			}

			item := models.WishlistItem{
				WishlistID: list.WishlistID,
				ProductID:  product.ID.String(),
				Name:       product.Name,
				Price:      product.Price.String(),
				Image:      product.ImageOrDefault(),
				AddedAt:    time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			if err := touchWishlist(tx, list.WishlistID); err != nil {
				return err
			}
			items = append(list.Items, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Item added to wishlist", Wishlist: socket.WishlistOf(items)}, nil
	}
}

// RemoveFromWishlist reads productId from the payload, falling back to the
// envelope's top-level productId sent by older pages.
func RemoveFromWishlist(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in struct {
			ProductID socket.Text `json:"productId"`
		}
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		productID := in.ProductID.String()
		if productID == "" {
			productID = req.ProductID.String()
		}
		if productID == "" {
			return nil, errProductIDEmpty
		}

		var items []models.WishlistItem
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			list, err := models.LoadWishlist(tx, req.Email)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errWishlistEmpty
			}
			if err != nil {
				return err
			}
			if len(list.Items) == 0 {
				return errWishlistEmpty
			}

			i := list.FindItem(productID)
			if i < 0 {
				return errItemNotFound
			}
			if err := tx.Delete(&list.Items[i]).Error; err != nil {
				return err
			}
			if err := touchWishlist(tx, list.WishlistID); err != nil {
				return err
			}
			items = append(list.Items[:i], list.Items[i+1:]...)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Item removed from wishlist", Wishlist: socket.WishlistOf(items)}, nil
	}
}

func GetWishlist(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		items, err := models.WishlistItems(db.WithContext(ctx), req.Email)
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Wishlist retrieved successfully", Wishlist: socket.WishlistOf(items)}, nil
	}
}

func touchWishlist(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Wishlist{}).Where("wishlist_id = ?", id).Update("updated_at", time.Now()).Error
}
