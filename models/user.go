package models

import "time"

type User struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string    `json:"username"`
	Email           string    `gorm:"unique;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	DateOfBirth     string    `json:"date_of_birth"`
	PositionApplied string    `json:"position_applied"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
