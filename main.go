package main

import (
	"log"
	"net/http"
	"os"

	"civicconnect-be/config"
	"civicconnect-be/models"
	"civicconnect-be/routes"
	authUtils "civicconnect-be/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}

	log.Println("MongoDB connection established successfully!")

	if err := ensureIndexes(); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	config.ConnectRedis()

	if mailer := authUtils.NewSMTPMailerFromEnv(); mailer != nil {
		authUtils.ActiveMailer = mailer
	} else {
		log.Println("No SMTP credentials set, emails will be logged only")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.AuthRoutes(r)
	routes.CitizenRoutes(r)
	routes.SectorHeadRoutes(r)
	routes.AdminRoutes(r)
	routes.IssueRoutes(r)
	routes.FeedbackRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureIndexes creates the unique indexes the invariants rely on:
// feedback (citizen, issue), citizen email/houseId, one head per sector.
func ensureIndexes() error {
	if err := models.EnsureCitizenIndexes(config.GetCollection("citizens")); err != nil {
		return err
	}
	if err := models.EnsureSectorHeadIndexes(config.GetCollection("sectorheads")); err != nil {
		return err
	}
	if err := models.EnsureAdminIndexes(config.GetCollection("admins")); err != nil {
		return err
	}
	return models.EnsureFeedbackIndex(config.GetCollection("feedbacks"))
}
