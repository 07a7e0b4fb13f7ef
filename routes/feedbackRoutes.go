package routes

import (
	"civicconnect-be/controllers"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
)

// FeedbackRoutes sets up feedback submission and rating aggregates.
func FeedbackRoutes(r *gin.Engine) {
	feedback := r.Group("/api/feedback", middlewares.AuthMiddleware())
	{
		feedback.POST("/submit", middlewares.RequireRole(models.RoleCitizen), controllers.SubmitFeedback)
		feedback.GET("/sector-ratings", middlewares.RequireRole(models.RoleSectorHead), controllers.GetSectorRatings)
		feedback.GET("/global-ratings", middlewares.RequireRole(models.RoleAdmin), controllers.GetGlobalRatings)
	}
}
