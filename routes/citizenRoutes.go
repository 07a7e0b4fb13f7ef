package routes

import (
	"civicconnect-be/controllers"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
)

// CitizenRoutes sets up registration, login and profile routes for
// citizens. Registration requires an authenticated sector head: the new
// citizen's sector comes from the head's stored record, and admins have
// no sector to register into.
func CitizenRoutes(r *gin.Engine) {
	citizen := r.Group("/api/citizen")
	{
		citizen.POST("/register", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleSectorHead), controllers.RegisterCitizen)
		citizen.POST("/login", controllers.LoginCitizen)
		citizen.POST("/forgot-password", controllers.ForgotPasswordCitizen)
		citizen.POST("/reset-password/:token", controllers.ResetPasswordCitizen)
		citizen.GET("/me", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleCitizen), controllers.GetCitizenProfile)
	}
}
