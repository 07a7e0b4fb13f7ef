package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Water       IssueCategory = "Water"
	Electricity IssueCategory = "Electricity"
	Sanitation  IssueCategory = "Sanitation"
	Roads       IssueCategory = "Roads"
	Other       IssueCategory = "Other"
)

// Categories lists every category in stable order. Analytics tie-breaks
// depend on this ordering.
var Categories = []IssueCategory{Water, Electricity, Sanitation, Roads, Other}

// ValidCategory reports whether c is in the fixed enum.
func ValidCategory(c IssueCategory) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
	Escalated  IssueStatus = "Escalated"
	Closed     IssueStatus = "Closed"
)

// Statuses lists every status in stable order.
var Statuses = []IssueStatus{Pending, InProgress, Resolved, Escalated, Closed}

// ValidStatus reports whether s is in the fixed enum.
func ValidStatus(s IssueStatus) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Comment is an annotation on an issue by a sector head or admin.
// Comments are append-only; AuthorName is denormalized so the thread
// stays readable if the author is later renamed.
type Comment struct {
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	AuthorRole Role               `bson:"authorRole" json:"authorRole"`
	Text       string             `bson:"text" json:"text"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Issue represents a civic issue reported by a citizen. Sector and
// HouseID are snapshots taken at creation time and stay authoritative
// for routing even if the citizen record is later edited.
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Citizen     primitive.ObjectID `bson:"citizen" json:"citizen"`
	Sector      string             `bson:"sector" json:"sector"`
	HouseID     string             `bson:"houseId" json:"houseId"`
	Category    IssueCategory      `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	ImageURL    *string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Status      IssueStatus        `bson:"status" json:"status"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	Archived    bool               `bson:"archived" json:"archived"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	ClosedAt    *time.Time         `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}
