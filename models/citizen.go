package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Citizen is a resident registered by the head of their sector.
type Citizen struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Phone                string             `bson:"phone" json:"phone"`
	Sector               string             `bson:"sector" json:"sector"`
	HouseNumber          string             `bson:"houseNumber" json:"houseNumber"`
	HouseID              string             `bson:"houseId" json:"houseId"`
	Password             string             `bson:"password,omitempty" json:"-"`
	IsVerified           bool               `bson:"isVerified" json:"isVerified"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HouseID derives the stable secondary key for a citizen's residence.
func HouseID(sector, houseNumber string) string {
	return fmt.Sprintf("%s-%s", sector, houseNumber)
}

func (c *Citizen) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Password = string(hashed)
	return nil
}

func (c *Citizen) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(candidate))
	return err == nil
}

// Principal returns the citizen as a resolved actor.
func (c *Citizen) Principal() Principal {
	return Principal{ID: c.ID, Role: RoleCitizen, Name: c.Name, Sector: c.Sector}
}

// EnsureCitizenIndexes creates the unique indexes for email and houseId.
func EnsureCitizenIndexes(collection *mongo.Collection) error {
	ctx, cancel := defaultIndexContext()
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "houseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
