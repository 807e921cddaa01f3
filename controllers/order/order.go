package orderControllers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/models"
)

var (
	errInvalidOrder  = apperr.New(apperr.ValidationError, "Invalid order data: items, shippingAddress, and paymentMethod are required")
	errInvalidItem   = apperr.New(apperr.ValidationError, "Invalid item data in order")
	errOrderNotFound = apperr.New(apperr.NotFound, "Order not found or you do not have permission to delete it")
)

type placeOrderInput struct {
	Items           []socket.Product `json:"items"`
	ShippingAddress string           `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
}

// buildOrders validates the whole request before anything is written.
func buildOrders(email string, in placeOrderInput, now time.Time) ([]models.Order, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	payment := strings.TrimSpace(in.PaymentMethod)
	if len(in.Items) == 0 || address == "" || payment == "" {
		return nil, errInvalidOrder
	}

	orders := make([]models.Order, 0, len(in.Items))
	for _, item := range in.Items {
		qty, ok := item.Quantity.Int()
		if item.ID.String() == "" || strings.TrimSpace(item.Name) == "" || item.Price.String() == "" || !ok {
			return nil, errInvalidItem
		}
		orders = append(orders, models.Order{
			UserEmail:       email,
			ProductID:       item.ID.String(),
			Name:            item.Name,
			Price:           item.Price.String(),
			Quantity:        qty,
			Image:           item.ImageOrDefault(),
			ShippingAddress: address,
			PaymentMethod:   payment,
			Status:          models.OrderStatusPending,
			CreatedAt:       now,
		})
	}
	return orders, nil
}

// PlaceOrder writes one order row per item and empties the cart atomically.
// Emails and the admin feed are notified after commit.
func PlaceOrder(db *gorm.DB, notifier mailer.Notifier, feed *Feed) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in placeOrderInput
		if err := req.BindOrder(&in, errInvalidOrder); err != nil {
			return nil, err
		}
		orders, err := buildOrders(req.Email, in, time.Now())
		if err != nil {
			return nil, err
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&orders).Error; err != nil {
				return err
			}
			return models.ClearCart(tx, req.Email)
		})
		if err != nil {
			return nil, err
		}

		notifier.OrderPlaced(req.Email, orders)
		if feed != nil {
			feed.Publish(orders)
		}
		return &socket.Reply{Message: "Order placed successfully", Orders: socket.OrdersOf(orders)}, nil
	}
}

func GetOrders(db *gorm.DB) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		orders, err := models.UserOrders(db.WithContext(ctx), req.Email)
		if err != nil {
			return nil, err
		}
		return &socket.Reply{Message: "Orders retrieved successfully", Orders: socket.OrdersOf(orders)}, nil
	}
}

// RemoveOrder cancels one of the caller's own orders.
func RemoveOrder(db *gorm.DB, notifier mailer.Notifier) socket.HandlerFunc {
	return func(ctx context.Context, req *socket.Request) (*socket.Reply, error) {
		var in struct {
			OrderID socket.Text `json:"orderId"`
		}
		if err := req.Bind(&in); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(in.OrderID.String(), 10, 64)
		if err != nil {
			return nil, errOrderNotFound
		}

		var order models.Order
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("id = ? AND user_email = ?", id, req.Email).First(&order).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errOrderNotFound
			}
			if err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			return nil, err
		}

		order.Status = models.OrderStatusCancelled
		notifier.OrderCancelled(req.Email, order)
		return &socket.Reply{Message: "Order cancelled successfully"}, nil
	}
}
