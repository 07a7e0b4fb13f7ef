package controllers

import (
	"net/http"

	"civicconnect-be/apperrors"
	"civicconnect-be/authz"
	"civicconnect-be/config"
	"civicconnect-be/middlewares"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	citizenCollection      *mongo.Collection = config.GetCollection("citizens")
	sectorHeadCollection   *mongo.Collection = config.GetCollection("sectorheads")
	adminCollection        *mongo.Collection = config.GetCollection("admins")
	issueCollection        *mongo.Collection = config.GetCollection("issues")
	feedbackCollection     *mongo.Collection = config.GetCollection("feedbacks")
	broadcastLogCollection *mongo.Collection = config.GetCollection("broadcastlogs")
)

// principal extracts the resolved actor or writes the 401 itself.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middlewares.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "reason": string(authz.ReasonNotAuthenticated)})
	}
	return p, ok
}

// respondError maps a taxonomy error to its HTTP status.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

// respondDenied surfaces an authorization denial with its reason code.
func respondDenied(c *gin.Context, decision authz.Decision) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized", "reason": string(decision.Reason)})
}
