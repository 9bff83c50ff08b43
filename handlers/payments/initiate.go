package payments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/swiftpay"
	"github.com/perejack/canadaman/utils"
)

type initiatePaymentRequest struct {
	PhoneNumber        string  `json:"phoneNumber"`
	Amount             float64 `json:"amount"`
	Description        string  `json:"description"`
	ApplicationID      string  `json:"applicationId"`
	InterviewBookingID string  `json:"interviewBookingId"`
	UserID             string  `json:"userId"`
	Purpose            string  `json:"purpose"`
	InterviewCompany   string  `json:"interviewCompany"`
	InterviewPosition  string  `json:"interviewPosition"`
	InterviewType      string  `json:"interviewType"`
	InterviewAt        string  `json:"interviewAt"`
}

// InitiatePayment triggers an STK push on the payer's phone and records
// a pending payment attempt keyed by the provider's checkout id. Once
// SwiftPay has accepted the charge the request succeeds; local
// bookkeeping failures are logged, never surfaced.
func (h *Handler) InitiatePayment(c *gin.Context) {
	logger := utils.GetLogger()

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request body is missing or invalid"})
		return
	}

	if req.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Phone number is required"})
		return
	}

	normalizedPhone, ok := utils.NormalizePhone(req.PhoneNumber)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid phone number format. Use 07XXXXXXXX or 254XXXXXXXXX"})
		return
	}

	amount := req.Amount
	if amount <= 0 {
		amount = DefaultAmount
	}

	result, err := h.Gateway.STKPush(c.Request.Context(), normalizedPhone, amount)
	if err != nil {
		var provErr *swiftpay.ProviderError
		switch {
		case errors.As(err, &provErr):
			logger.Warn("SwiftPay rejected charge", zap.Any("payload", provErr.Payload))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": provErr.Error(), "error": provErr.Payload})
		case errors.Is(err, swiftpay.ErrBadProviderResponse):
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Invalid response from payment service"})
		default:
			logger.Error("STK push request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "An unexpected server error occurred", "error": err.Error()})
		}
		return
	}

	// The checkout id is the durable correlation key between us, the
	// provider webhook and the status poller.
	checkoutID := result.CheckoutRequestID
	if checkoutID == "" {
		checkoutID = "CANADAADS-" + uuid.NewString()
	}

	userID := req.UserID
	if userID == "" {
		if id, err := utils.ExtractUserIDFromToken(h.JWTSecret, c.GetHeader("Authorization")); err == nil {
			userID = id
		}
	}

	purpose := req.Purpose
	if purpose == "" {
		switch {
		case req.InterviewBookingID != "":
			purpose = models.PurposeInterviewBooking
		case req.ApplicationID != "":
			purpose = models.PurposeApplication
		default:
			purpose = models.PurposeUnknown
		}
	}

	bookingID := req.InterviewBookingID
	if purpose == models.PurposeInterviewBooking && bookingID == "" {
		bookingID = h.createInterviewBooking(&req, userID)
	}

	attempt := models.PaymentAttempt{
		ID:                uuid.NewString(),
		CheckoutRequestID: checkoutID,
		Purpose:           purpose,
		PhoneNumber:       normalizedPhone,
		Amount:            amount,
		Status:            models.PaymentPending,
	}
	if req.ApplicationID != "" {
		attempt.ApplicationID = &req.ApplicationID
	}
	if bookingID != "" {
		attempt.InterviewBookingID = &bookingID
	}
	if userID != "" {
		attempt.UserID = &userID
	}

	// The charge is already in flight with the provider; losing the
	// local row must not fail the request.
	if err := h.DB.Create(&attempt).Error; err != nil {
		logger.Error("payment_attempts insert failed", zap.String("checkout_id", checkoutID), zap.Error(err))
	} else {
		logger.Info("payment_attempts row created", zap.String("checkout_id", checkoutID))
	}

	if req.ApplicationID != "" {
		err := h.DB.Model(&models.Application{}).
			Where("id = ?", req.ApplicationID).
			Updates(map[string]interface{}{
				"payment_reference": checkoutID,
				"payment_status":    models.ApplicationPending,
			}).Error
		if err != nil {
			logger.Error("applications update failed", zap.String("application_id", req.ApplicationID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment initiated successfully",
		"data": gin.H{
			"requestId":            checkoutID,
			"checkoutRequestId":    checkoutID,
			"transactionRequestId": checkoutID,
		},
	})
}

// createInterviewBooking makes the booking row a payment attempt can
// reference when the caller pays for an interview without having booked
// one first. Returns the new booking id, or "" when the insert failed.
func (h *Handler) createInterviewBooking(req *initiatePaymentRequest, userID string) string {
	logger := utils.GetLogger()

	if userID == "" {
		userID = "guest-" + uuid.NewString()
	}

	booking := models.InterviewBooking{
		ID:            uuid.NewString(),
		UserID:        userID,
		Company:       req.InterviewCompany,
		Position:      req.InterviewPosition,
		InterviewType: req.InterviewType,
		Status:        models.PaymentPending,
	}

	if req.InterviewAt != "" {
		if at, err := time.Parse(time.RFC3339, req.InterviewAt); err == nil {
			booking.InterviewAt = &at
		} else {
			logger.Error("Invalid interview time, booking stored without schedule",
				zap.String("interview_at", req.InterviewAt), zap.Error(err))
		}
	} else {
		logger.Error("Interview booking requested without a scheduled time")
	}

	if err := h.DB.Create(&booking).Error; err != nil {
		logger.Error("interview_bookings insert failed", zap.Error(err))
		return ""
	}

	return booking.ID
}
