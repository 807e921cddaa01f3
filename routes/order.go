package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/vansh565/Nexus-store/controllers/order"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
)

func orderCommands(svc *Services) []socket.Command {
	return []socket.Command{
		{Name: "placeOrder", Auth: true, Delivery: socket.Broadcast, Handle: orderControllers.PlaceOrder(svc.DB, svc.Notifier, svc.Feed)},
		{Name: "getOrders", Auth: true, Delivery: socket.Broadcast, Handle: orderControllers.GetOrders(svc.DB)},
		{Name: "removeOrder", ReplyType: "cancelOrder", Auth: true, Delivery: socket.Broadcast, Handle: orderControllers.RemoveOrder(svc.DB, svc.Notifier)},
	}
}

// SetupOrderRoutes registers the store-side order endpoints on the admin group.
func SetupOrderRoutes(admin *gin.RouterGroup, svc *Services) {
	orders := admin.Group("/orders")
	{
		orders.GET("", orderControllers.GetAllOrdersHandler(svc.DB))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", svc.Feed.OrderWebSocketHandler)

		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(svc.DB, svc.Notifier))
		orders.DELETE("/:orderID", orderControllers.DeleteOrderHandler(svc.DB, svc.Notifier))
	}
}
