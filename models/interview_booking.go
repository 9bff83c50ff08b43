package models

import "time"

type InterviewBooking struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"not null" json:"user_id"`
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	InterviewType string     `json:"interview_type"`
	InterviewAt   *time.Time `json:"interview_at"`
	Status        string     `gorm:"not null;default:pending" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
