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

// RegisterSectorHead appoints a head for a sector. Admin only; the
// unique sector index guarantees at most one active head per sector.
func RegisterSectorHead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		Name   string `json:"name" binding:"required,max=50"`
		Sector string `json:"sector" binding:"required,max=20"`
		Email  string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if decision := authz.Authorize(p, authz.ActionRegisterSectorHead, authz.Resource{Sector: input.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	tempPassword, err := authUtils.RandomHex(6)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	now := time.Now()
	head := models.SectorHead{
		Name:      input.Name,
		Sector:    input.Sector,
		Email:     models.NormalizeEmail(input.Email),
		Password:  tempPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := head.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := sectorHeadCollection.InsertOne(ctx, head)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, fmt.Errorf("%w: sector head email taken or sector already has a head", apperrors.ErrDuplicateRegistration))
			return
		}
		log.Println("Error inserting sector head:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{head.Email},
		"Welcome to CivicConnect - Sector Head Onboarding",
		fmt.Sprintf("Welcome %s,\n\nYou are appointed as Sector Head for sector %s.\nEmail: %s\nTemporary password: %s\n\nFor security, change your password after login.",
			head.Name, head.Sector, head.Email, tempPassword))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sector Head registered successfully",
		"sectorHead": gin.H{
			"id":     result.InsertedID,
			"name":   head.Name,
			"email":  head.Email,
			"sector": head.Sector,
		},
	})
}

// LoginSectorHead authenticates a sector head and returns a bearer token.
func LoginSectorHead(c *gin.Context) {
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

	var head models.SectorHead
	if err := sectorHeadCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(input.Email)}).Decode(&head); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !head.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(head.ID.Hex(), models.RoleSectorHead)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"sectorHead": gin.H{
			"id":     head.ID,
			"name":   head.Name,
			"email":  head.Email,
			"sector": head.Sector,
		},
	})
}

// ForgotPasswordSectorHead issues a reset token valid for 1 hour.
func ForgotPasswordSectorHead(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var head models.SectorHead
	if err := sectorHeadCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(input.Email)}).Decode(&head); err != nil {
		respondError(c, fmt.Errorf("%w: sector head", apperrors.ErrNotFound))
		return
	}

	token, err := authUtils.RandomHex(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	expires := time.Now().Add(time.Hour)

	_, err = sectorHeadCollection.UpdateOne(ctx,
		bson.M{"_id": head.ID},
		bson.M{"$set": bson.M{"resetPasswordToken": token, "resetPasswordExpires": expires}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{head.Email},
		"Reset Your CivicConnect Password",
		fmt.Sprintf("A password reset was requested for your sector head account.\nReset token: %s\nThe token expires in 1 hour.", token))

	c.JSON(http.StatusOK, gin.H{"message": "Reset email sent successfully"})
}

// ResetPasswordSectorHead consumes a reset token and sets a new password.
func ResetPasswordSectorHead(c *gin.Context) {
	token := c.Param("token")

	var input struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var head models.SectorHead
	err := sectorHeadCollection.FindOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": time.Now()},
	}).Decode(&head)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	head.Password = input.Password
	if err := head.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	_, err = sectorHeadCollection.UpdateOne(ctx,
		bson.M{"_id": head.ID},
		bson.M{
			"$set":   bson.M{"password": head.Password, "updatedAt": time.Now()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{head.Email},
		"Your CivicConnect Password Was Reset",
		"Your sector head password has been securely updated.")

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetSectorHeadProfile returns the authenticated sector head's record.
func GetSectorHeadProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var head models.SectorHead
	if err := sectorHeadCollection.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&head); err != nil {
		respondError(c, fmt.Errorf("%w: sector head", apperrors.ErrNotFound))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     head.ID,
		"name":   head.Name,
		"email":  head.Email,
		"sector": head.Sector,
	})
}

// GetSectorDashboardSummary returns issue and citizen counts for the
// head's own sector. The counts fan out concurrently.
func GetSectorDashboardSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionViewSectorSummary, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sector := p.Sector
	counts := make([]int64, len(models.Statuses))
	var totalIssues, totalCitizens int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalIssues, err = issueCollection.CountDocuments(gctx, bson.M{"sector": sector})
		return err
	})
	for i, status := range models.Statuses {
		i, status := i, status
		g.Go(func() error {
			var err error
			counts[i], err = issueCollection.CountDocuments(gctx, bson.M{"sector": sector, "status": status})
			return err
		})
	}
	g.Go(func() error {
		var err error
		totalCitizens, err = citizenCollection.CountDocuments(gctx, bson.M{"sector": sector})
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
		"sector":        sector,
		"totalIssues":   totalIssues,
		"issuesByStatus": byStatus,
		"totalCitizens": totalCitizens,
	})
}

// GetSectorCitizens lists every citizen of the head's sector with a
// per-citizen issue summary.
func GetSectorCitizens(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionListSectorCitizens, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := citizenCollection.Find(ctx, bson.M{"sector": p.Sector})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch citizens"})
		return
	}
	defer cursor.Close(ctx)

	var citizens []models.Citizen
	if err := cursor.All(ctx, &citizens); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode citizens"})
		return
	}

	type citizenSummary struct {
		models.Citizen
		TotalIssues int64 `json:"totalIssues"`
		OpenIssues  int64 `json:"openIssues"`
	}

	summaries := make([]citizenSummary, 0, len(citizens))
	for _, citizen := range citizens {
		total, err := issueCollection.CountDocuments(ctx, bson.M{"citizen": citizen.ID})
		if err != nil {
			total = 0
		}
		open, err := issueCollection.CountDocuments(ctx, bson.M{
			"citizen": citizen.ID,
			"status":  bson.M{"$ne": models.Closed},
		})
		if err != nil {
			open = 0
		}
		summaries = append(summaries, citizenSummary{Citizen: citizen, TotalIssues: total, OpenIssues: open})
	}

	c.JSON(http.StatusOK, gin.H{"sector": p.Sector, "citizens": summaries})
}
