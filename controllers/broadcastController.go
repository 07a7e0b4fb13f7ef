package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"civicconnect-be/apperrors"
	"civicconnect-be/authz"
	"civicconnect-be/broadcast"
	"civicconnect-be/models"
	authUtils "civicconnect-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// SendSectorBroadcast mails every verified citizen in the sender's own
// sector. The recipient set is recomputed from stored citizen records
// keyed by the authenticated principal's stored sector; nothing from the
// request body influences scope. Every attempt is logged for audit.
func SendSectorBroadcast(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sendBroadcast(c, p, bson.M{"sector": p.Sector})
}

// SendAdminBroadcast mails every verified citizen municipality-wide.
func SendAdminBroadcast(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sendBroadcast(c, p, bson.M{})
}

func sendBroadcast(c *gin.Context, p models.Principal, citizenFilter bson.M) {
	if decision := authz.Authorize(p, authz.ActionBroadcast, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	var input struct {
		Subject string `json:"subject" binding:"required,max=200"`
		Message string `json:"message" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := citizenCollection.Find(ctx, citizenFilter)
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

	// The gate re-verifies sector membership from the stored records,
	// so even a bad query above cannot leak across sectors.
	recipients, err := broadcast.Recipients(p, citizens)
	if err != nil {
		writeBroadcastLog(p, input.Subject, input.Message, 0, models.BroadcastFailed, err.Error())
		if errors.Is(err, apperrors.ErrNoRecipients) || errors.Is(err, apperrors.ErrNotAuthorized) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Broadcast failed"})
		return
	}

	sender := fmt.Sprintf("%s (%s)", p.Name, p.Role)
	if p.Role == models.RoleSectorHead {
		sender = fmt.Sprintf("%s (Sector %s Head)", p.Name, p.Sector)
	}
	body := fmt.Sprintf("%s\n\nRegards,\n%s", input.Message, sender)

	if err := authUtils.ActiveMailer.Send(broadcast.Emails(recipients), input.Subject, body); err != nil {
		log.Printf("broadcast delivery failed: %v", err)
		writeBroadcastLog(p, input.Subject, input.Message, len(recipients), models.BroadcastFailed, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Broadcast delivery failed"})
		return
	}

	writeBroadcastLog(p, input.Subject, input.Message, len(recipients), models.BroadcastCompleted, "")

	c.JSON(http.StatusOK, gin.H{
		"message":        "Broadcast sent successfully",
		"recipientCount": len(recipients),
	})
}

// writeBroadcastLog appends the audit record. A failed log write is
// itself only logged; it cannot undo a sent broadcast.
func writeBroadcastLog(p models.Principal, subject, message string, recipients int, status models.BroadcastStatus, errMsg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry := models.BroadcastLog{
		SenderID:       p.ID,
		SenderName:     p.Name,
		SenderRole:     p.Role,
		Sector:         p.Sector,
		Subject:        subject,
		Message:        message,
		RecipientCount: recipients,
		Status:         status,
		Error:          errMsg,
		SentAt:         time.Now(),
	}
	if _, err := broadcastLogCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("failed to write broadcast log: %v", err)
	}
}
