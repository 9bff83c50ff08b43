package models

import "time"

// Job is a catalog entry shown on the application form.
type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"unique;not null" json:"title"`
	Category    string    `json:"category"`
	SalaryRange string    `json:"salary_range"`
	Featured    bool      `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
