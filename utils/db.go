package utils

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the applications database (Supabase-hosted
// Postgres). The returned handle is passed explicitly into every
// handler; there is no package-wide connection.
func ConnectDatabase(databaseURL string) *gorm.DB {
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set in the environment")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to applications database: %v", err)
	}

	return db
}
