package models

import "time"

// Payment attempt statuses. An attempt is created pending and moves to
// exactly one terminal state; terminal rows are never reopened.
const (
	PaymentPending   = "pending"
	PaymentSuccess   = "success"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// Payment purposes.
const (
	PurposeApplication      = "application"
	PurposeInterviewBooking = "interview_booking"
	PurposeUnknown          = "unknown"
)

type PaymentAttempt struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	CheckoutRequestID  string    `gorm:"unique;not null" json:"checkout_request_id"`
	ApplicationID      *string   `gorm:"type:uuid" json:"application_id"`
	InterviewBookingID *string   `gorm:"type:uuid" json:"interview_booking_id"`
	UserID             *string   `json:"user_id"`
	Purpose            string    `gorm:"not null;default:unknown" json:"purpose"`
	PhoneNumber        string    `gorm:"not null" json:"phone_number"`
	Amount             float64   `gorm:"not null" json:"amount"`
	Status             string    `gorm:"not null;default:pending" json:"status"`
	TransactionID      string    `json:"transaction_id"`
	TransactionReceipt string    `json:"transaction_receipt"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Terminal reports whether the attempt has reached a final state.
func (p PaymentAttempt) Terminal() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentFailed || p.Status == PaymentCancelled
}
