package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application payment statuses.
const (
	ApplicationUnpaid  = "unpaid"
	ApplicationPending = "pending"
	ApplicationPaid    = "paid"
)

type Application struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectName      string         `gorm:"not null" json:"project_name"`
	FullName         string         `gorm:"not null" json:"full_name"`
	Email            string         `gorm:"unique;not null" json:"email"`
	Phone            string         `gorm:"not null" json:"phone"`
	JobTitle         string         `json:"job_title"`
	ProjectData      datatypes.JSON `json:"project_data"`
	PaymentAmount    float64        `json:"payment_amount"`
	PaymentStatus    string         `gorm:"not null;default:unpaid" json:"payment_status"`
	PaymentReference *string        `json:"payment_reference"`
	IPAddress        string         `json:"ip_address"`
	UserAgent        string         `json:"user_agent"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
