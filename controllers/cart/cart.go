package cartControllers

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
	errInvalidUpdate  = apperr.New(apperr.ValidationError, "Invalid productId or quantity")
	errProductIDEmpty = apperr.New(apperr.ValidationError, "productId is required")
	errCartEmpty      = apperr.New(apperr.NotFound, "Cart not found or empty")
	errItemNotFound   = apperr.New(apperr.NotFound, "Item not found in cart")
)

type cartItemInput struct {
	ProductID socket.Text     `json:"productId"`
	Quantity  socket.Quantity `json:"quantity"`
}

// AddToCart inserts the product or, when it is already in the cart,
// overwrites its quantity with the given one or bumps it by one.
func AddToCart(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		product, err := req.BindProduct()
		if err != nil {
			return nil, err
		}

		var items []models.CartItem
		existed := false
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			cart, err := models.LoadOrCreateCart(tx, req.Email)
			if err != nil {
				return err
			}

			if i := cart.FindItem(product.ID.String()); i >= 0 {
				existed = true
				item := &cart.Items[i]
				if qty, ok := product.Quantity.Int(); ok {
					item.Quantity = qty
				} else {
					item.Quantity++
				}
				item.AddedAt = time.Now()
				if err := tx.Save(item).Error; err != nil {
					return err
				}
			} else {
				qty, ok := product.Quantity.Int()
				if !ok {
					qty = 1
				}
				item := models.CartItem{
					CartID:    cart.CartID,
					ProductID: product.ID.String(),
					Name:      product.Name,
					Price:     product.Price.String(),
					Image:     product.ImageOrDefault(),
					Quantity:  qty,
					AddedAt:   time.Now(),
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				cart.Items = append(cart.Items, item)
			}

			if err := touchCart(tx, cart.CartID); err != nil {
				return err
			}
			items = cart.Items
			return nil
		})
		if err != nil {
			return nil, err
		}

		msg := "Item added to cart"
		if existed {
			msg = "Cart updated"
		}
		return &socket.Reply{Message: msg, Cart: socket.CartOf(items)}, nil
	}
}

// ValidateUpdate rejects a malformed updateCart payload before the session
// is looked up.
func ValidateUpdate(req *socket.Request) error {
	_, _, err := parseUpdate(req)
	return err
}

func parseUpdate(req *socket.Request) (cartItemInput, int, error) {
	var in cartItemInput
	if err := req.Bind(&in); err != nil {
		return in, 0, errInvalidUpdate
	}
	qty, ok := in.Quantity.Int()
	if in.ProductID.String() == "" || !ok {
		return in, 0, errInvalidUpdate
	}
	return in, qty, nil
}

// UpdateCart sets the quantity of an item already in the cart.
func UpdateCart(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		in, qty, err := parseUpdate(req)
		if err != nil {
			return nil, err
		}

		items, err := mutateCart(ctx, db, req.Email, func(tx *gorm.DB, cart *models.Cart) error {
			i := cart.FindItem(in.ProductID.String())
			if i < 0 {
				return errItemNotFound
			}
			cart.Items[i].Quantity = qty
			return tx.Save(&cart.Items[i]).Error
		})
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Cart updated", Cart: socket.CartOf(items)}, nil
	}
}

// RemoveFromCart deletes one item. An absent item leaves the cart unchanged.
func RemoveFromCart(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in cartItemInput
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		productID := in.ProductID.String()
		if productID == "" {
			return nil, errProductIDEmpty
		}

		items, err := mutateCart(ctx, db, req.Email, func(tx *gorm.DB, cart *models.Cart) error {
			i := cart.FindItem(productID)
			if i < 0 {
				return errItemNotFound
			}
			if err := tx.Delete(&cart.Items[i]).Error; err != nil {
				return err
			}
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Item removed from cart", Cart: socket.CartOf(items)}, nil
	}
}

func GetCart(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		items, err := models.CartItems(db.WithContext(ctx), req.Email)
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Cart retrieved successfully", Cart: socket.CartOf(items)}, nil
	}
}

// mutateCart runs fn against the locked, non-empty cart of email and returns
// the resulting items.
func mutateCart(ctx context.Context, db *gorm.DB, email string, fn func(tx *gorm.DB, cart *models.Cart) error) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := models.LoadCart(tx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCartEmpty
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return errCartEmpty
		}

		if err := fn(tx, cart); err != nil {
			return err
		}
		if err := touchCart(tx, cart.CartID); err != nil {
			return err
		}
		items = cart.Items
		return nil
	})
	return items, err
}

func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("cart_id = ?", cartID).Update("updated_at", time.Now()).Error
}
