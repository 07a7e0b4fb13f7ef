package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"civicconnect-be/config"
	"civicconnect-be/models"
	authUtils "civicconnect-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const principalKey = "principal"

// AuthMiddleware verifies the bearer token and resolves the full
// principal from the store. Handlers receive the principal via
// PrincipalFrom and pass it explicitly into every core operation.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided", "reason": "NotAuthenticated"})
			c.Abort()
			return
		}

		userID, role, err := authUtils.ParseToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token", "reason": "NotAuthenticated"})
			c.Abort()
			return
		}

		principal, err := resolvePrincipal(userID, role)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Principal not found", "reason": "NotAuthenticated"})
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole rejects principals whose role is not in the allowed set.
// This is a coarse route gate; the fine-grained sector and ownership
// checks live in the authz evaluator.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "reason": "NotAuthenticated"})
			c.Abort()
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "reason": "RoleNotPermitted"})
		c.Abort()
	}
}

// PrincipalFrom returns the resolved principal set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	if authHeader != "" {
		return authHeader
	}
	// Browser clients carry the token in a cookie instead.
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

func resolvePrincipal(userID string, role models.Role) (models.Principal, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Principal{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": objectID}
	switch role {
	case models.RoleCitizen:
		var citizen models.Citizen
		if err := config.GetCollection("citizens").FindOne(ctx, filter).Decode(&citizen); err != nil {
			return models.Principal{}, err
		}
		return citizen.Principal(), nil
	case models.RoleSectorHead:
		var head models.SectorHead
		if err := config.GetCollection("sectorheads").FindOne(ctx, filter).Decode(&head); err != nil {
			return models.Principal{}, err
		}
		return head.Principal(), nil
	default:
		var admin models.Admin
		if err := config.GetCollection("admins").FindOne(ctx, filter).Decode(&admin); err != nil {
			return models.Principal{}, err
		}
		return admin.Principal(), nil
	}
}
