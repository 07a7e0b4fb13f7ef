package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BroadcastStatus enum
type BroadcastStatus string

const (
	BroadcastCompleted BroadcastStatus = "completed"
	BroadcastFailed    BroadcastStatus = "failed"
)

// BroadcastLog records every broadcast attempt, successful or not,
// for audit.
type BroadcastLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderName     string             `bson:"senderName" json:"senderName"`
	SenderRole     Role               `bson:"senderRole" json:"senderRole"`
	Sector         string             `bson:"sector,omitempty" json:"sector,omitempty"`
	Subject        string             `bson:"subject" json:"subject"`
	Message        string             `bson:"message" json:"message"`
	RecipientCount int                `bson:"recipientCount" json:"recipientCount"`
	Status         BroadcastStatus    `bson:"status" json:"status"`
	Error          string             `bson:"error,omitempty" json:"error,omitempty"`
	SentAt         time.Time          `bson:"sentAt" json:"sentAt"`
}
