package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"civicconnect-be/analytics"
	"civicconnect-be/authz"
	"civicconnect-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetSectorAnalytics reports category breakdown, most reported category,
// average resolution time and average feedback rating for the sector
// head's own sector. Archived issues stay in the data set so history
// survives feedback submission.
func GetSectorAnalytics(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if decision := authz.Authorize(p, authz.ActionViewSectorReports, authz.Resource{Sector: p.Sector}); !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	issues, err := sectorIssues(p.Sector)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	c.JSON(http.StatusOK, sectorReport(p.Sector, issues))
}

// GetGlobalAnalytics is the admin view over every sector.
func GetGlobalAnalytics(c *gin.Context) {
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

	cursor, err := issueCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	report := gin.H{
		"totalIssues":      len(issues),
		"issuesByStatus":   analytics.StatusHistogram(issues),
		"issuesByCategory": analytics.CategoryHistogram(issues),
		"reportedLast7Days": analytics.ReportedSince(issues, time.Now().AddDate(0, 0, -7)),
	}
	if category, found := analytics.MostReportedCategory(issues); found {
		report["mostReportedCategory"] = category
	} else {
		report["mostReportedCategory"] = "N/A"
	}
	if days, found := analytics.AvgResolutionDays(issues); found {
		report["avgResolutionTime"] = fmt.Sprintf("%.2f days", days)
	} else {
		report["avgResolutionTime"] = "N/A"
	}

	c.JSON(http.StatusOK, report)
}

func sectorIssues(sector string) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := issueCollection.Find(ctx, bson.M{"sector": sector})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func sectorReport(sector string, issues []models.Issue) gin.H {
	report := gin.H{
		"sector":           sector,
		"totalIssues":      len(issues),
		"issuesByStatus":   analytics.StatusHistogram(issues),
		"issuesByCategory": analytics.CategoryHistogram(issues),
	}

	if category, found := analytics.MostReportedCategory(issues); found {
		report["mostReportedCategory"] = category
	} else {
		report["mostReportedCategory"] = "N/A"
	}

	if days, found := analytics.AvgResolutionDays(issues); found {
		report["avgResolutionTime"] = fmt.Sprintf("%.2f days", days)
	} else {
		report["avgResolutionTime"] = "N/A"
	}

	if summary, found, err := sectorRatingSummary(sector); err == nil && found {
		report["avgFeedbackRating"] = summary.Average
	} else {
		report["avgFeedbackRating"] = "N/A"
	}

	return report
}
