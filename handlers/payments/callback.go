package payments

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/repo"
	"github.com/perejack/canadaman/utils"
)

// webhookPayload is the asynchronous result notification SwiftPay
// relays from M-Pesa. Delivery is unauthenticated; the checkout id is
// the only linkage back to a local attempt.
type webhookPayload struct {
	ResponseCode        *int   `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	TransactionID       string `json:"TransactionID"`
	// The provider sends amount and msisdn as either strings or JSON
	// numbers; neither is consumed, so bind them loosely rather than
	// reject an otherwise valid delivery.
	TransactionAmount  interface{} `json:"TransactionAmount"`
	TransactionReceipt string      `json:"TransactionReceipt"`
	TransactionDate    string      `json:"TransactionDate"`
	Msisdn             interface{} `json:"Msisdn"`
	MerchantRequestID  string      `json:"MerchantRequestID"`
	CheckoutRequestID  string      `json:"CheckoutRequestID"`
}

// PaymentCallback ingests the provider webhook. The response is 200 for
// anything we consciously handled, including payloads we choose to
// ignore, so the provider does not re-deliver.
func (h *Handler) PaymentCallback(c *gin.Context) {
	logger := utils.GetLogger()

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid webhook data"})
		return
	}

	logger.Info("Payment webhook received",
		zap.String("checkout_id", payload.CheckoutRequestID),
		zap.String("transaction_id", payload.TransactionID),
		zap.Any("response_code", payload.ResponseCode))

	if payload.TransactionID == "" && payload.CheckoutRequestID == "" {
		logger.Error("Invalid webhook: missing TransactionID and CheckoutRequestID")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid webhook data"})
		return
	}

	status := models.PaymentFailed
	if payload.ResponseCode != nil {
		switch *payload.ResponseCode {
		case 0:
			status = models.PaymentSuccess
		case 1, 1031, 1032:
			status = models.PaymentCancelled
		case 1037:
			// Timeout notification; the real outcome arrives later.
			logger.Info("Timeout response received - ignoring webhook")
			c.JSON(http.StatusOK, gin.H{"status": "received", "message": "Timeout webhook ignored"})
			return
		}
	}

	if payload.CheckoutRequestID == "" {
		logger.Error("CheckoutRequestID missing - cannot update payment_attempts")
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Webhook processed successfully"})
		return
	}

	if payload.TransactionDate != "" {
		if at, err := time.Parse("20060102150405", payload.TransactionDate); err == nil {
			logger.Info("Transaction completed", zap.Time("transaction_at", at))
		}
	}

	attempt, err := repo.FindAttemptByCheckout(h.DB, payload.CheckoutRequestID)
	if err != nil {
		logger.Error("payment_attempts fetch error", zap.Error(err))
	}

	transitioned, err := repo.MarkAttemptStatus(h.DB, payload.CheckoutRequestID, status, payload.TransactionID, payload.TransactionReceipt)
	if err != nil {
		logger.Error("payment_attempts update error", zap.Error(err))
	}

	if status == models.PaymentSuccess {
		// The attempt insert at initiation is best-effort, so the row
		// may be missing; the payment_reference fallback still finds
		// the application the checkout id was stamped on.
		target := attempt
		if target == nil {
			target = &models.PaymentAttempt{CheckoutRequestID: payload.CheckoutRequestID}
		}
		if err := repo.MarkApplicationPaid(h.DB, target); err != nil {
			logger.Error("applications update error", zap.Error(err))
		}

		// Confirmations only on the delivery that actually settled the
		// attempt; duplicates are acknowledged silently.
		if transitioned && attempt != nil {
			h.notifyPaymentSuccess(attempt)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Webhook processed successfully"})
}

func (h *Handler) notifyPaymentSuccess(attempt *models.PaymentAttempt) {
	h.Wati.SendPaymentConfirmation(attempt.PhoneNumber, attempt.Amount)

	if attempt.ApplicationID == nil {
		return
	}
	var app models.Application
	if err := h.DB.First(&app, "id = ?", *attempt.ApplicationID).Error; err != nil {
		return
	}
	h.Mailer.SendPaymentReceiptEmail(app.Email, attempt.Amount, attempt.CheckoutRequestID)
}
