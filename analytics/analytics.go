// Package analytics computes read-side projections over issue and
// feedback sets. The projections are snapshots for dashboards and
// reports; they never drive lifecycle transitions.
package analytics

import (
	"time"

	"civicconnect-be/models"

	"github.com/montanaflynn/stats"
)

// StatusHistogram counts issues per status.
func StatusHistogram(issues []models.Issue) map[models.IssueStatus]int {
	histogram := make(map[models.IssueStatus]int, len(models.Statuses))
	for _, issue := range issues {
		histogram[issue.Status]++
	}
	return histogram
}

// CategoryHistogram counts issues per category.
func CategoryHistogram(issues []models.Issue) map[models.IssueCategory]int {
	histogram := make(map[models.IssueCategory]int, len(models.Categories))
	for _, issue := range issues {
		histogram[issue.Category]++
	}
	return histogram
}

// MostReportedCategory returns the arg-max of the category histogram.
// Ties break by the stable ordering of models.Categories. The second
// return is false for an empty issue set.
func MostReportedCategory(issues []models.Issue) (models.IssueCategory, bool) {
	if len(issues) == 0 {
		return "", false
	}
	histogram := CategoryHistogram(issues)

	var best models.IssueCategory
	bestCount := 0
	for _, category := range models.Categories {
		if histogram[category] > bestCount {
			best = category
			bestCount = histogram[category]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}

// AvgResolutionDays is the mean of (closedAt - createdAt) over issues
// that reached Closed, in days rounded to 2 decimals. The second return
// is false when no closed issues exist; callers render that as "N/A",
// never as zero.
func AvgResolutionDays(issues []models.Issue) (float64, bool) {
	var durations []float64
	for _, issue := range issues {
		if issue.Status != models.Closed || issue.ClosedAt == nil {
			continue
		}
		durations = append(durations, issue.ClosedAt.Sub(issue.CreatedAt).Hours()/24)
	}
	if len(durations) == 0 {
		return 0, false
	}

	mean, err := stats.Mean(durations)
	if err != nil {
		return 0, false
	}
	rounded, err := stats.Round(mean, 2)
	if err != nil {
		return 0, false
	}
	return rounded, true
}

// RatingSummary is an average rating with its sample count.
type RatingSummary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"totalRatings"`
}

// Ratings averages feedback ratings, rounded to 2 decimals. The second
// return is false when the sample is empty, the explicit NoData result
// rather than a division-by-zero value.
func Ratings(feedbacks []models.Feedback) (RatingSummary, bool) {
	if len(feedbacks) == 0 {
		return RatingSummary{}, false
	}

	ratings := make([]float64, 0, len(feedbacks))
	for _, fb := range feedbacks {
		ratings = append(ratings, float64(fb.Rating))
	}
	mean, err := stats.Mean(ratings)
	if err != nil {
		return RatingSummary{}, false
	}
	rounded, err := stats.Round(mean, 2)
	if err != nil {
		return RatingSummary{}, false
	}
	return RatingSummary{Average: rounded, Count: len(feedbacks)}, true
}

// ReportedSince counts issues created on or after cutoff. Used by the
// dashboard's recent-activity tile.
func ReportedSince(issues []models.Issue, cutoff time.Time) int {
	count := 0
	for _, issue := range issues {
		if !issue.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count
}
