// seed/seed.go
package seed

import (
	"log"

	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
)

// SeedJobs populates the job catalog shown on the application form.
// Existing rows are left alone so operators can edit them.
func SeedJobs(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Job{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Job catalog already seeded. Skipping.")
		return nil
	}

	jobs := []models.Job{
		{Title: "Warehouse Worker", Category: "Logistics", SalaryRange: "CAD 3,200 - 4,100 / month", Featured: true},
		{Title: "Delivery Driver", Category: "Logistics", SalaryRange: "CAD 3,400 - 4,300 / month", Featured: true},
		{Title: "Fruit Picker", Category: "Agriculture", SalaryRange: "CAD 2,800 - 3,600 / month"},
		{Title: "Housekeeper", Category: "Hospitality", SalaryRange: "CAD 2,900 - 3,500 / month"},
		{Title: "Construction Labourer", Category: "Construction", SalaryRange: "CAD 3,600 - 4,800 / month", Featured: true},
		{Title: "Caregiver", Category: "Healthcare", SalaryRange: "CAD 3,100 - 4,000 / month"},
		{Title: "Kitchen Helper", Category: "Hospitality", SalaryRange: "CAD 2,800 - 3,400 / month"},
		{Title: "Security Guard", Category: "Services", SalaryRange: "CAD 3,000 - 3,800 / month"},
	}

	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d catalog jobs.", len(jobs))
	return nil
}
