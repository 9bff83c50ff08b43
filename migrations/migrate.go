package migrations

import (
	"log"

	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
)

func MigrateApplications(db *gorm.DB) {
	if err := db.AutoMigrate(&models.Application{}); err != nil {
		log.Fatalf("Failed to migrate applications: %v", err)
	}
}

func MigratePayments(db *gorm.DB) {
	if err := db.AutoMigrate(&models.PaymentAttempt{}, &models.InterviewBooking{}); err != nil {
		log.Fatalf("Failed to migrate payment tables: %v", err)
	}
}

func MigrateUsers(db *gorm.DB) {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate users: %v", err)
	}
}

func MigrateJobs(db *gorm.DB) {
	if err := db.AutoMigrate(&models.Job{}); err != nil {
		log.Fatalf("Failed to migrate jobs: %v", err)
	}
}
