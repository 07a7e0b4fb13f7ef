package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Feedback is a citizen's rating of a closed issue.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Citizen   primitive.ObjectID `bson:"citizen" json:"citizen"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidRating reports whether r is in the 1..5 range.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}

// EnsureFeedbackIndex creates a unique compound index for (citizen, issue)
// so a second submission fails at insert instead of racing a read-then-write.
func EnsureFeedbackIndex(collection *mongo.Collection) error {
	ctx, cancel := defaultIndexContext()
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "citizen", Value: 1}, {Key: "issue", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
