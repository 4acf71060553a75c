package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/akazansky/survey-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Logger records rejected requests (validation failures, bad
// credentials) before the error is surfaced to the caller. Tests swap
// it out the same way they swap DB.
var Logger = slog.Default()

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbName, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// Migrate creates or updates the tables for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Survey{},
		&models.Question{},
		&models.AnswerChoice{},
		&models.Answer{},
	)
}
