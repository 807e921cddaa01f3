package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/vansh565/Nexus-store/controllers/admin"
	userControllers "github.com/vansh565/Nexus-store/controllers/user"
	"github.com/vansh565/Nexus-store/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires the API key.
func SetupAdminRoutes(r *gin.Engine, svc *Services) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(svc.Config.AdminAPIKey))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(svc.DB))
		adminGroup.GET("/users/:email", userControllers.GetUser(svc.DB))
		adminGroup.DELETE("/users/:email/sessions", userControllers.RevokeUserSessions(svc.DB, svc.Directory))

		// ─────────── Orders ───────────
		adminGroup.GET("/orders/export-excel", adminController.ExportOrdersToExcel(svc.DB))
		SetupOrderRoutes(adminGroup, svc)
	}
}
