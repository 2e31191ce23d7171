package database

import (
	"fmt"
	"log"
	"os"

	"scanbridge-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Could not connect to database: " + err.Error())
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.Operator{},
		&models.StoredBlob{},
		&models.IdempotencyKey{},
	); err != nil {
		panic("automigrate failed: " + err.Error())
	}

	// AutoMigrate's uniqueIndex tag covers new installs; keep the explicit
	// statement for databases created before the tag existed.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
	).Error; err != nil {
		panic("index migration failed: " + err.Error())
	}
}
