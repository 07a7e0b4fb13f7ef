package routes

import (
	"civicconnect-be/controllers"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
)

// SectorHeadRoutes sets up the sector head area. Registration of a new
// head is admin-only; everything else is scoped to the head's own
// sector by the authz evaluator.
func SectorHeadRoutes(r *gin.Engine) {
	head := r.Group("/api/sector-head")
	{
		head.POST("/register", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin), controllers.RegisterSectorHead)
		head.POST("/login", controllers.LoginSectorHead)
		head.POST("/forgot-password", controllers.ForgotPasswordSectorHead)
		head.POST("/reset-password/:token", controllers.ResetPasswordSectorHead)

		authed := head.Group("", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleSectorHead))
		{
			authed.GET("/me", controllers.GetSectorHeadProfile)
			authed.GET("/dashboard-summary", controllers.GetSectorDashboardSummary)
			authed.GET("/citizens", controllers.GetSectorCitizens)
			authed.GET("/analytics", controllers.GetSectorAnalytics)
			authed.POST("/broadcast", controllers.SendSectorBroadcast)
		}
	}
}
