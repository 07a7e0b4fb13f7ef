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
)

// RegisterCitizen creates a citizen account. Only a sector head may
// register residents, and always into their own sector: the sector is
// taken from the registering head's stored record, never from the body.
func RegisterCitizen(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required,max=50"`
		Email       string `json:"email" binding:"required,email"`
		Phone       string `json:"phone" binding:"required,max=20"`
		HouseNumber string `json:"houseNumber" binding:"required,max=20"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A citizen always belongs to the sector of the head who registers
	// them; a principal without a sector cannot register anyone.
	sector := p.Sector
	if sector == "" {
		respondError(c, fmt.Errorf("%w: registering principal has no sector", apperrors.ErrValidation))
		return
	}
	if decision := authz.Authorize(p, authz.ActionRegisterCitizen, authz.Resource{Sector: sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	tempPassword, err := authUtils.RandomHex(4)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	now := time.Now()
	citizen := models.Citizen{
		Name:        input.Name,
		Email:       models.NormalizeEmail(input.Email),
		Phone:       input.Phone,
		Sector:      sector,
		HouseNumber: input.HouseNumber,
		HouseID:     models.HouseID(sector, input.HouseNumber),
		Password:    tempPassword,
		IsVerified:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := citizen.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := citizenCollection.InsertOne(ctx, citizen)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, fmt.Errorf("%w: citizen with same email or houseId", apperrors.ErrDuplicateRegistration))
			return
		}
		log.Println("Error inserting citizen:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{citizen.Email},
		"Welcome to CivicConnect - Citizen Registration",
		fmt.Sprintf("Hello %s,\n\nYou are registered as a citizen of sector %s.\nHouse ID: %s\nEmail: %s\nTemporary password: %s\n\nPlease change this password after your first login.",
			citizen.Name, sector, citizen.HouseID, citizen.Email, tempPassword))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Citizen registered successfully",
		"citizen": gin.H{
			"id":         result.InsertedID,
			"name":       citizen.Name,
			"email":      citizen.Email,
			"phone":      citizen.Phone,
			"sector":     citizen.Sector,
			"houseId":    citizen.HouseID,
			"isVerified": citizen.IsVerified,
		},
	})
}

// LoginCitizen authenticates a citizen and returns a bearer token.
func LoginCitizen(c *gin.Context) {
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

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(input.Email)}).Decode(&citizen); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !citizen.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(citizen.ID.Hex(), models.RoleCitizen)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"citizen": gin.H{
			"id":      citizen.ID,
			"name":    citizen.Name,
			"email":   citizen.Email,
			"sector":  citizen.Sector,
			"houseId": citizen.HouseID,
		},
	})
}

// ForgotPasswordCitizen issues a password-reset token valid for 1 hour.
func ForgotPasswordCitizen(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"email": models.NormalizeEmail(input.Email)}).Decode(&citizen); err != nil {
		respondError(c, fmt.Errorf("%w: citizen", apperrors.ErrNotFound))
		return
	}

	token, err := authUtils.RandomHex(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	expires := time.Now().Add(time.Hour)

	_, err = citizenCollection.UpdateOne(ctx,
		bson.M{"_id": citizen.ID},
		bson.M{"$set": bson.M{"resetPasswordToken": token, "resetPasswordExpires": expires}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{citizen.Email},
		"Reset Your CivicConnect Password",
		fmt.Sprintf("A password reset was requested for your account.\nReset token: %s\nThe token expires in 1 hour. If you did not request this, ignore this email.", token))

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to email"})
}

// ResetPasswordCitizen consumes a reset token and sets a new password.
func ResetPasswordCitizen(c *gin.Context) {
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

	var citizen models.Citizen
	err := citizenCollection.FindOne(ctx, bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": time.Now()},
	}).Decode(&citizen)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	citizen.Password = input.Password
	if err := citizen.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	_, err = citizenCollection.UpdateOne(ctx,
		bson.M{"_id": citizen.ID},
		bson.M{
			"$set":   bson.M{"password": citizen.Password, "updatedAt": time.Now()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.SendAsync([]string{citizen.Email},
		"Password Reset Confirmation",
		"Your CivicConnect password has been successfully updated. If you did not make this change, contact support immediately.")

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetCitizenProfile returns the authenticated citizen's own record.
func GetCitizenProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&citizen); err != nil {
		respondError(c, fmt.Errorf("%w: citizen", apperrors.ErrNotFound))
		return
	}

	if decision := authz.Authorize(p, authz.ActionViewCitizen, authz.CitizenResource(citizen)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          citizen.ID,
		"name":        citizen.Name,
		"email":       citizen.Email,
		"phone":       citizen.Phone,
		"sector":      citizen.Sector,
		"houseNumber": citizen.HouseNumber,
		"houseId":     citizen.HouseID,
		"isVerified":  citizen.IsVerified,
		"createdAt":   citizen.CreatedAt,
		"updatedAt":   citizen.UpdatedAt,
	})
}
