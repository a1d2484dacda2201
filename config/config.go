package config

import (
	"fmt"
	"log"
	"os"

	"github.com/Pradhyumna23/Nourish-AI/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate runs AutoMigrate for every model. Split out so tests can run it
// against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.HealthCondition{},
		&models.DietaryRestriction{},
		&models.NutrientTargets{},
		&models.FoodItem{},
		&models.FoodLogEntry{},
		&models.DailyActivityLog{},
		&models.Recommendation{},
		&models.Alert{},
		&models.ChatMessage{},
	)
}
