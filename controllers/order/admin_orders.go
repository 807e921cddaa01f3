package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func parseOrderID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
		return 0, false
	}
	return id, true
}

// GetAllOrdersHandler lists orders newest first, optionally filtered by
// ?status= and ?email=.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.WithContext(c.Request.Context()).Model(&models.Order{})

		if s := c.Query("status"); s != "" {
			status, err := mapOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", status)
		}
		if email := strings.ToLower(strings.TrimSpace(c.Query("email"))); email != "" {
			query = query.Where("user_email = ?", email)
		}

		orders := []models.Order{}
		if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func UpdateOrderStatusHandler(db *gorm.DB, notifier mailer.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseOrderID(c)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		db := db.WithContext(c.Request.Context())
		result := db.Model(&models.Order{}).Where("id = ?", id).Update("status", newStatus)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}
		notifier.OrderStatusChanged(order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

// DeleteOrderHandler removes an order on behalf of the store. The customer is
// told it was cancelled.
func DeleteOrderHandler(db *gorm.DB, notifier mailer.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		var order models.Order
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&order, id).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}

		order.Status = models.OrderStatusCancelled
		notifier.OrderCancelled(order.UserEmail, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
