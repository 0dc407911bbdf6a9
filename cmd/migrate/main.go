// Command migrate copies the application tables from the local sqlite
// database into a Postgres database pointed at by DATABASE_URL.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"codecritical/models"
)

const batchSize = 100

func main() {
	godotenv.Load()

	sqliteFile := os.Getenv("sqlite_db")
	if sqliteFile == "" {
		sqliteFile = "app.db"
	}

	postgresURL := os.Getenv("DATABASE_URL")
	if postgresURL == "" {
		log.Fatal("Please set DATABASE_URL to the target Postgres database")
	}

	src, err := gorm.Open(sqlite.Open(sqliteFile), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error opening sqlite db %s: %v", sqliteFile, err)
	}

	dst, err := gorm.Open(postgres.Open(postgresURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to Postgres: %v", err)
	}

	if err := dst.AutoMigrate(&models.Post{}, &models.ContactMessage{}, &models.Review{}); err != nil {
		log.Fatalf("Error migrating target schema: %v", err)
	}

	copyTable[models.Post](src, dst, "posts")
	copyTable[models.ContactMessage](src, dst, "contact_messages")
	copyTable[models.Review](src, dst, "reviews")
}

func copyTable[T any](src, dst *gorm.DB, name string) {
	var rows []T
	if err := src.Find(&rows).Error; err != nil {
		log.Printf("Skipping %s: %v", name, err)
		return
	}
	if len(rows) == 0 {
		log.Printf("No rows to copy for %s", name)
		return
	}

	result := dst.CreateInBatches(&rows, batchSize)
	if result.Error != nil {
		log.Printf("Error copying %s: %v", name, result.Error)
		return
	}

	log.Printf("Copied %d rows into %s", result.RowsAffected, name)
}
