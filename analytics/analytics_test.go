package analytics

import (
	"testing"
	"time"

	"civicconnect-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueWith(status models.IssueStatus, category models.IssueCategory) models.Issue {
	return models.Issue{Status: status, Category: category}
}

func closedIssue(created time.Time, days float64) models.Issue {
	closedAt := created.Add(time.Duration(days * 24 * float64(time.Hour)))
	return models.Issue{Status: models.Closed, CreatedAt: created, ClosedAt: &closedAt}
}

func TestStatusHistogram(t *testing.T) {
	issues := []models.Issue{
		issueWith(models.Pending, models.Water),
		issueWith(models.Pending, models.Roads),
		issueWith(models.Closed, models.Water),
		issueWith(models.Escalated, models.Other),
	}
	histogram := StatusHistogram(issues)
	assert.Equal(t, 2, histogram[models.Pending])
	assert.Equal(t, 1, histogram[models.Closed])
	assert.Equal(t, 1, histogram[models.Escalated])
	assert.Equal(t, 0, histogram[models.InProgress])
}

func TestCategoryHistogram(t *testing.T) {
	issues := []models.Issue{
		issueWith(models.Pending, models.Water),
		issueWith(models.Closed, models.Water),
		issueWith(models.Pending, models.Sanitation),
	}
	histogram := CategoryHistogram(issues)
	assert.Equal(t, 2, histogram[models.Water])
	assert.Equal(t, 1, histogram[models.Sanitation])
	assert.Equal(t, 0, histogram[models.Roads])
}

func TestMostReportedCategory(t *testing.T) {
	issues := []models.Issue{
		issueWith(models.Pending, models.Roads),
		issueWith(models.Pending, models.Roads),
		issueWith(models.Pending, models.Water),
	}
	category, ok := MostReportedCategory(issues)
	require.True(t, ok)
	assert.Equal(t, models.Roads, category)
}

func TestMostReportedCategoryTieBreaksByDeclarationOrder(t *testing.T) {
	// Water precedes Roads in models.Categories, so a tie goes to Water
	// no matter the order the issues arrive in.
	issues := []models.Issue{
		issueWith(models.Pending, models.Roads),
		issueWith(models.Pending, models.Water),
	}
	category, ok := MostReportedCategory(issues)
	require.True(t, ok)
	assert.Equal(t, models.Water, category)
}

func TestMostReportedCategoryEmpty(t *testing.T) {
	_, ok := MostReportedCategory(nil)
	assert.False(t, ok)
}

func TestAvgResolutionDays(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	issues := []models.Issue{
		closedIssue(created, 2),
		closedIssue(created, 4),
		issueWith(models.Pending, models.Water),
	}
	days, ok := AvgResolutionDays(issues)
	require.True(t, ok)
	assert.InDelta(t, 3.0, days, 0.001)
}

func TestAvgResolutionDaysRounding(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	days, ok := AvgResolutionDays([]models.Issue{closedIssue(created, 1.0/3.0)})
	require.True(t, ok)
	assert.InDelta(t, 0.33, days, 0.001)
}

func TestAvgResolutionDaysNoClosedIssues(t *testing.T) {
	issues := []models.Issue{
		issueWith(models.Pending, models.Water),
		issueWith(models.InProgress, models.Roads),
	}
	_, ok := AvgResolutionDays(issues)
	assert.False(t, ok)

	// A Closed issue missing its timestamp is skipped, not counted as zero.
	_, ok = AvgResolutionDays([]models.Issue{{Status: models.Closed}})
	assert.False(t, ok)
}

func TestRatings(t *testing.T) {
	feedbacks := []models.Feedback{{Rating: 4}, {Rating: 2}, {Rating: 5}}
	summary, ok := Ratings(feedbacks)
	require.True(t, ok)
	assert.InDelta(t, 3.67, summary.Average, 0.001)
	assert.Equal(t, 3, summary.Count)
}

func TestRatingsNoData(t *testing.T) {
	_, ok := Ratings(nil)
	assert.False(t, ok)
}

func TestReportedSince(t *testing.T) {
	cutoff := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	issues := []models.Issue{
		{CreatedAt: cutoff.Add(-time.Hour)},
		{CreatedAt: cutoff},
		{CreatedAt: cutoff.Add(48 * time.Hour)},
	}
	assert.Equal(t, 2, ReportedSince(issues, cutoff))
	assert.Equal(t, 0, ReportedSince(nil, cutoff))
}
