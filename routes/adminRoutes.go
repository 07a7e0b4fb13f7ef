package routes

import (
	"civicconnect-be/controllers"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin area.
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/profile", controllers.GetAdminProfile)
		admin.GET("/dashboard-summary", controllers.GetDashboardSummary)
		admin.GET("/analytics", controllers.GetGlobalAnalytics)
		admin.POST("/broadcast", controllers.SendAdminBroadcast)
	}
}
