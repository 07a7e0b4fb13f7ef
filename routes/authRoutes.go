package routes

import (
	"civicconnect-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the admin authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/admin", controllers.RegisterAdmin)
		auth.POST("/login", controllers.LoginAdmin)
	}
}
