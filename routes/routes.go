package routes

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/config"
	orderControllers "github.com/vansh565/Nexus-store/controllers/order"
	socket "github.com/vansh565/Nexus-store/controllers/socket"
	"github.com/vansh565/Nexus-store/mailer"
	"github.com/vansh565/Nexus-store/otp"
	"github.com/vansh565/Nexus-store/realtime"
	"github.com/vansh565/Nexus-store/storage"
)

// Services holds everything the handlers are built from.
type Services struct {
	Config    *config.Config
	DB        *gorm.DB
	Directory *realtime.Directory
	OTP       otp.Store
	Images    storage.ImageStore
	Notifier  mailer.Notifier
	Feed      *orderControllers.Feed
	Log       *zap.Logger
}

// SetupRoutes is the single entry point that wires the socket, upload, admin
// and static routes.
func SetupRoutes(r *gin.Engine, svc *Services) *socket.Dispatcher {
	dispatcher := NewDispatcher(svc)
	serveWS := socket.ServeWS(dispatcher)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The storefront pages open their socket on the page origin itself.
	index := filepath.Join(svc.Config.PublicDir, "index.html")
	r.GET("/", func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) {
			serveWS(c)
			return
		}
		c.File(index)
	})
	r.GET("/ws", serveWS)

	SetupUploadRoutes(r, svc)
	SetupAdminRoutes(r, svc)

	static := http.FileServer(gin.Dir(svc.Config.PublicDir, false))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
	})

	return dispatcher
}

// NewDispatcher builds the socket dispatcher with every storefront command.
func NewDispatcher(svc *Services) *socket.Dispatcher {
	d := socket.NewDispatcher(svc.DB, svc.Directory, svc.Config.Session.HandlerTimeout, svc.Log)
	d.Register(authCommands(svc)...)
	d.Register(userCommands(svc)...)
	d.Register(orderCommands(svc)...)
	return d
}
