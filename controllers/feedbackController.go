package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"civicconnect-be/analytics"
	"civicconnect-be/apperrors"
	"civicconnect-be/authz"
	"civicconnect-be/lifecycle"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubmitFeedback records the one rating a citizen may give a closed
// issue. Uniqueness is enforced by the (citizen, issue) index, so a
// concurrent duplicate fails at insert rather than racing a read. On
// success the issue is archived, retiring it from the citizen's active
// list while keeping it for analytics.
func SubmitFeedback(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		IssueID string `json:"issueId" binding:"required"`
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRating(input.Rating) {
		respondError(c, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation))
		return
	}

	issue, err := findIssue(input.IssueID)
	if err != nil {
		respondError(c, err)
		return
	}

	if decision := authz.Authorize(p, authz.ActionSubmitFeedback, authz.IssueResource(issue)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	if !lifecycle.Terminal(issue.Status) {
		respondError(c, fmt.Errorf("%w: issue is not closed yet", apperrors.ErrValidation))
		return
	}

	feedback := models.Feedback{
		ID:        primitive.NewObjectID(),
		Citizen:   p.ID,
		Issue:     issue.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := feedbackCollection.InsertOne(ctx, feedback); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, apperrors.ErrDuplicateFeedback)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		return
	}

	// Retire the issue from the citizen's worklist. The record stays so
	// resolution-time and rating analytics keep their linkage.
	if _, err := issueCollection.UpdateOne(ctx, bson.M{"_id": issue.ID}, bson.M{"$set": bson.M{"archived": true}}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedback saved but issue could not be archived"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully", "feedback": feedback})
}

// GetSectorRatings returns the average rating across the sector head's
// own sector. Sector membership is joined through stored citizen
// records, never through request data.
func GetSectorRatings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionViewSectorRatings, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	summary, found, err := sectorRatingSummary(p.Sector)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"sector": p.Sector, "averageRating": "N/A", "totalRatings": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sector": p.Sector, "averageRating": summary.Average, "totalRatings": summary.Count})
}

// GetGlobalRatings returns the municipality-wide average rating. Admin
// only.
func GetGlobalRatings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionViewGlobalRatings, authz.Resource{}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := feedbackCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}
	defer cursor.Close(ctx)

	var feedbacks []models.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode ratings"})
		return
	}

	summary, found := analytics.Ratings(feedbacks)
	if !found {
		c.JSON(http.StatusOK, gin.H{"averageRating": "N/A", "totalRatings": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"averageRating": summary.Average, "totalRatings": summary.Count})
}

// sectorRatingSummary joins feedback to citizens of one sector and
// averages the ratings. found is false when the sector has no feedback.
func sectorRatingSummary(sector string) (analytics.RatingSummary, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := citizenCollection.Find(ctx, bson.M{"sector": sector})
	if err != nil {
		return analytics.RatingSummary{}, false, err
	}
	defer cursor.Close(ctx)

	var citizens []models.Citizen
	if err := cursor.All(ctx, &citizens); err != nil {
		return analytics.RatingSummary{}, false, err
	}
	if len(citizens) == 0 {
		return analytics.RatingSummary{}, false, nil
	}

	ids := make([]primitive.ObjectID, 0, len(citizens))
	for _, citizen := range citizens {
		ids = append(ids, citizen.ID)
	}

	fbCursor, err := feedbackCollection.Find(ctx, bson.M{"citizen": bson.M{"$in": ids}})
	if err != nil {
		return analytics.RatingSummary{}, false, err
	}
	defer fbCursor.Close(ctx)

	var feedbacks []models.Feedback
	if err := fbCursor.All(ctx, &feedbacks); err != nil {
		return analytics.RatingSummary{}, false, err
	}

	summary, found := analytics.Ratings(feedbacks)
	return summary, found, nil
}
