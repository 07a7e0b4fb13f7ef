package routes

import (
	"civicconnect-be/controllers"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue lifecycle routes. Every route resolves
// the principal first; the fine-grained sector and ownership checks run
// in the handlers through the authz evaluator.
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issue", middlewares.AuthMiddleware())
	{
		issue.POST("/report",
			middlewares.RequireRole(models.RoleCitizen),
			middlewares.IssueRateLimiter(5),
			controllers.ReportIssue)
		issue.GET("/mine", middlewares.RequireRole(models.RoleCitizen), controllers.GetMyIssues)
		issue.GET("/sector", middlewares.RequireRole(models.RoleSectorHead), controllers.GetSectorIssues)
		issue.GET("/all", middlewares.RequireRole(models.RoleAdmin), controllers.GetAllIssues)
		issue.GET("/export", middlewares.RequireRole(models.RoleAdmin), controllers.ExportIssues)
		issue.GET("/:id", controllers.GetIssue)
		issue.PATCH("/:id/status",
			middlewares.RequireRole(models.RoleSectorHead, models.RoleAdmin),
			controllers.UpdateIssueStatus)
		issue.POST("/:id/force-close",
			middlewares.RequireRole(models.RoleSectorHead),
			controllers.ForceCloseIssue)
		issue.POST("/:id/comments",
			middlewares.RequireRole(models.RoleSectorHead, models.RoleAdmin),
			controllers.AddComment)
	}
}
