package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"civicconnect-be/apperrors"
	"civicconnect-be/authz"
	"civicconnect-be/models"
	authUtils "civicconnect-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// RegisterAdmin seeds an administrator account. Kept open like the
// original deployment; the unique email index stops duplicates.
func RegisterAdmin(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	admin := models.Admin{
		Name:      input.Name,
		Email:     models.NormalizeEmail(input.Email),
		Password:  input.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := adminCollection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, fmt.Errorf("%w: admin with this email", apperrors.ErrDuplicateRegistration))
			return
		}
		log.Println("Error inserting admin:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin registered successfully",
		"admin":   gin.H{"id": result.InsertedID, "name": admin.Name, "email": admin.Email},
	})
}

// LoginAdmin authenticates an admin and returns a bearer token.
func LoginAdmin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	if err := adminCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(input.Email)}).Decode(&admin); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !admin.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(admin.ID.Hex(), models.RoleAdmin)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"admin":   gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
	})
}

// GetAdminProfile returns the authenticated admin's record.
func GetAdminProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var admin models.Admin
	if err := adminCollection.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&admin); err != nil {
		respondError(c, fmt.Errorf("%w: admin", apperrors.ErrNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email})
}

// GetDashboardSummary returns municipality-wide counts. Admin only.
func GetDashboardSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionViewGlobalSummary, authz.Resource{}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts := make([]int64, len(models.Statuses))
	var totalIssues, totalCitizens, totalFeedbacks int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalIssues, err = issueCollection.CountDocuments(gctx, bson.M{})
		return err
	})
	for i, status := range models.Statuses {
		i, status := i, status
		g.Go(func() error {
			var err error
			counts[i], err = issueCollection.CountDocuments(gctx, bson.M{"status": status})
			return err
		})
	}
	g.Go(func() error {
		var err error
		totalCitizens, err = citizenCollection.CountDocuments(gctx, bson.M{})
		return err
	})
	g.Go(func() error {
		var err error
		totalFeedbacks, err = feedbackCollection.CountDocuments(gctx, bson.M{})
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard summary"})
		return
	}

	byStatus := gin.H{}
	for i, status := range models.Statuses {
		byStatus[string(status)] = counts[i]
	}

	c.JSON(http.StatusOK, gin.H{
		"totalIssues":    totalIssues,
		"issuesByStatus": byStatus,
		"totalCitizens":  totalCitizens,
		"totalFeedbacks": totalFeedbacks,
	})
}
