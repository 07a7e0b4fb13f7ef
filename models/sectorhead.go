package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// SectorHead is the single official responsible for one sector.
type SectorHead struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Sector               string             `bson:"sector" json:"sector"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password,omitempty" json:"-"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (s *SectorHead) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.Password = string(hashed)
	return nil
}

func (s *SectorHead) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(candidate))
	return err == nil
}

// Principal returns the sector head as a resolved actor.
func (s *SectorHead) Principal() Principal {
	return Principal{ID: s.ID, Role: RoleSectorHead, Name: s.Name, Sector: s.Sector}
}

// EnsureSectorHeadIndexes enforces at most one head per sector and
// unique emails.
func EnsureSectorHeadIndexes(collection *mongo.Collection) error {
	ctx, cancel := defaultIndexContext()
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sector", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
