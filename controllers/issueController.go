package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"civicconnect-be/apperrors"
	"civicconnect-be/authz"
	"civicconnect-be/lifecycle"
	"civicconnect-be/models"
	authUtils "civicconnect-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportIssue creates a new issue for the authenticated citizen. Sector
// and houseId are stamped from the citizen's stored record at creation
// time and are not re-derived later.
func ReportIssue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		Category    string   `json:"category" binding:"required"`
		Description string   `json:"description" binding:"required,max=1000"`
		ImageURL    *string  `json:"imageUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if decision := authz.Authorize(p, authz.ActionReportIssue, authz.Resource{Owner: p.ID, Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	category := models.IssueCategory(input.Category)
	if !models.ValidCategory(category) {
		respondError(c, fmt.Errorf("%w: invalid category %q", apperrors.ErrValidation, input.Category))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&citizen); err != nil {
		respondError(c, fmt.Errorf("%w: citizen", apperrors.ErrNotFound))
		return
	}

	// Best effort: a geocoder outage never blocks the report.
	address := ""
	if input.Latitude != nil && input.Longitude != nil {
		resolved, err := authUtils.ReverseGeocode(ctx, *input.Latitude, *input.Longitude)
		if err != nil {
			log.Printf("reverse geocode failed: %v", err)
		} else {
			address = resolved
		}
	}

	now := time.Now()
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Citizen:     citizen.ID,
		Sector:      citizen.Sector,
		HouseID:     citizen.HouseID,
		Category:    category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     address,
		Status:      models.Pending,
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := issueCollection.InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	authUtils.SendAsync([]string{citizen.Email},
		"Issue Report Receipt - CivicConnect",
		fmt.Sprintf("Dear %s,\n\nYour %s issue has been reported successfully and is now Pending.\nReference: %s\nSector: %s, House: %s\n\nYou will be notified when its status changes.",
			citizen.Name, issue.Category, issue.ID.Hex(), issue.Sector, issue.HouseID))

	c.JSON(http.StatusCreated, gin.H{"message": "Issue reported successfully", "issue": issue})
}

// GetMyIssues lists the citizen's active (non-archived) issues, newest
// first, with a hasFeedback flag per issue.
func GetMyIssues(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionListOwnIssues, authz.Resource{Owner: p.ID}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The filter is derived from the principal, never from the request.
	filter := bson.M{"citizen": p.ID, "archived": bson.M{"$ne": true}}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	type issueWithFeedback struct {
		models.Issue
		HasFeedback bool `json:"hasFeedback"`
	}

	result := make([]issueWithFeedback, 0, len(issues))
	for _, issue := range issues {
		count, err := feedbackCollection.CountDocuments(ctx, bson.M{"citizen": p.ID, "issue": issue.ID})
		if err != nil {
			count = 0
		}
		result = append(result, issueWithFeedback{Issue: issue, HasFeedback: count > 0})
	}

	c.JSON(http.StatusOK, gin.H{"issues": result})
}

// GetSectorIssues lists every issue in the sector head's own sector. The
// sector comes from the stored principal, so the query is pre-filtered
// before it reaches the database.
func GetSectorIssues(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionListSectorIssues, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueCollection.Find(ctx, bson.M{"sector": p.Sector}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sector issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// GetAllIssues lists every issue municipality-wide. Admin only.
func GetAllIssues(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionListAllIssues, authz.Resource{}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// GetIssue retrieves one issue, visible to its owner, the head of its
// sector, and admins.
func GetIssue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	issue, err := findIssue(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if decision := authz.Authorize(p, authz.ActionViewIssue, authz.IssueResource(issue)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// UpdateIssueStatus moves an issue through the lifecycle graph. Illegal
// transitions fail with InvalidTransition; the write is conditional on
// the status the caller saw, so concurrent movers cannot interleave.
func UpdateIssueStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := findIssue(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if decision := authz.Authorize(p, authz.ActionUpdateStatus, authz.IssueResource(issue)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	newStatus := models.IssueStatus(input.Status)
	if err := lifecycle.Validate(issue.Status, newStatus); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{"status": newStatus, "updatedAt": now}
	if newStatus == models.Closed {
		update["closedAt"] = now
	}

	// Set status only if it is still what we validated against.
	result, err := issueCollection.UpdateOne(ctx,
		bson.M{"_id": issue.ID, "status": issue.Status},
		bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue status"})
		return
	}
	if result.MatchedCount == 0 {
		respondError(c, fmt.Errorf("%w: issue changed concurrently", apperrors.ErrInvalidTransition))
		return
	}

	issue.Status = newStatus
	issue.UpdatedAt = now
	if newStatus == models.Closed {
		issue.ClosedAt = &now
	}

	notifyOwner(issue, "Issue Status Updated - CivicConnect",
		fmt.Sprintf("The status of your %s issue (%s) is now: %s.", issue.Category, issue.ID.Hex(), newStatus))

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully", "issue": issue})
}

// ForceCloseIssue is the sector-head shortcut from any non-Closed status
// directly to Closed. Re-closing returns AlreadyClosed and leaves
// updatedAt untouched.
func ForceCloseIssue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	issue, err := findIssue(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if decision := authz.Authorize(p, authz.ActionForceClose, authz.IssueResource(issue)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	if err := lifecycle.ValidateForceClose(issue.Status); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	result, err := issueCollection.UpdateOne(ctx,
		bson.M{"_id": issue.ID, "status": bson.M{"$ne": models.Closed}},
		bson.M{"$set": bson.M{"status": models.Closed, "updatedAt": now, "closedAt": now}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close issue"})
		return
	}
	if result.MatchedCount == 0 {
		respondError(c, apperrors.ErrAlreadyClosed)
		return
	}

	issue.Status = models.Closed
	issue.UpdatedAt = now
	issue.ClosedAt = &now

	notifyOwner(issue, "Issue Closed - CivicConnect",
		fmt.Sprintf("Your %s issue (%s) has been closed by your sector head. You can now rate how it was handled.", issue.Category, issue.ID.Hex()))

	c.JSON(http.StatusOK, gin.H{"message": "Issue closed successfully", "issue": issue})
}

// AddComment appends an annotation by a sector head or admin. Comments
// may still be added after an issue is Closed; citizens can read the
// thread but never author it.
func AddComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := findIssue(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if decision := authz.Authorize(p, authz.ActionAddComment, authz.IssueResource(issue)); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	comment := models.Comment{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		AuthorRole: p.Role,
		Text:       input.Text,
		CreatedAt:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = issueCollection.UpdateOne(ctx,
		bson.M{"_id": issue.ID},
		bson.M{"$push": bson.M{"comments": comment}, "$set": bson.M{"updatedAt": comment.CreatedAt}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	notifyOwner(issue, "New Comment on Your Issue - CivicConnect",
		fmt.Sprintf("%s commented on your %s issue (%s):\n\n%s", p.Name, issue.Category, issue.ID.Hex(), input.Text))

	c.JSON(http.StatusOK, gin.H{"message": "Comment added successfully", "comment": comment})
}

// ExportIssues streams all issues as CSV with optional status and date
// range filters. Admin only.
func ExportIssues(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionExportIssues, authz.Resource{}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	createdAt := bson.M{}
	if start := c.Query("startDate"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			createdAt["$gte"] = t
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			createdAt["$lte"] = t.AddDate(0, 0, 1)
		}
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := issueCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}
	if len(issues) == 0 {
		respondError(c, fmt.Errorf("%w: no issues to export", apperrors.ErrNotFound))
		return
	}

	header := []string{"IssueID", "Category", "Description", "Status", "Sector", "HouseID", "CitizenName", "CitizenEmail", "CreatedAt", "UpdatedAt"}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		var citizen models.Citizen
		name, email := "", ""
		if err := citizenCollection.FindOne(ctx, bson.M{"_id": issue.Citizen}).Decode(&citizen); err == nil {
			name, email = citizen.Name, citizen.Email
		}
		rows = append(rows, []string{
			issue.ID.Hex(),
			string(issue.Category),
			issue.Description,
			string(issue.Status),
			issue.Sector,
			issue.HouseID,
			name,
			email,
			issue.CreatedAt.Format(time.RFC3339),
			issue.UpdatedAt.Format(time.RFC3339),
		})
	}

	csvBytes, err := authUtils.IssuesToCSV(header, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build CSV"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=civicconnect-issues-%d.csv", time.Now().Unix()))
	c.Data(http.StatusOK, "text/csv", csvBytes)
}

func findIssue(idParam string) (models.Issue, error) {
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return models.Issue{}, fmt.Errorf("%w: invalid issue id", apperrors.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	if err := issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Issue{}, fmt.Errorf("%w: issue", apperrors.ErrNotFound)
		}
		return models.Issue{}, err
	}
	return issue, nil
}

// notifyOwner emails the owning citizen about a lifecycle event.
// Fire-and-forget: delivery failure never rolls back the mutation.
func notifyOwner(issue models.Issue, subject, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.Citizen
	if err := citizenCollection.FindOne(ctx, bson.M{"_id": issue.Citizen}).Decode(&citizen); err != nil {
		log.Printf("notify: owner lookup failed for issue %s: %v", issue.ID.Hex(), err)
		return
	}
	authUtils.SendAsync([]string{citizen.Email}, subject, fmt.Sprintf("Dear %s,\n\n%s", citizen.Name, body))
}
