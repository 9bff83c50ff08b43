package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/repo"
	"github.com/perejack/canadaman/utils"
)

// Client-facing poll statuses. Cancelled collapses into FAILED; the
// front end only distinguishes done, not-done and not-yet.
const (
	pollPending = "PENDING"
	pollSuccess = "SUCCESS"
	pollFailed  = "FAILED"
)

// PaymentStatus reports the state of an attempt to a polling client.
// A locally terminal attempt is answered from the database; a pending
// one triggers a synchronous reconciliation against the verification
// proxy. The handler is idempotent and safe on every poll tick.
func (h *Handler) PaymentStatus(c *gin.Context) {
	logger := utils.GetLogger()

	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment reference is required"})
		return
	}

	attempt, err := repo.FindAttemptByCheckout(h.DB, reference)
	if err != nil {
		logger.Error("Database query error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error checking payment status", "error": err.Error()})
		return
	}

	// An unknown reference is indistinguishable from an attempt whose
	// insert has not landed yet, so the caller keeps polling.
	if attempt == nil {
		logger.Info("Payment status not found, still pending", zap.String("reference", reference))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"payment": gin.H{"status": pollPending, "message": "Payment is still being processed"},
		})
		return
	}

	status := pollPending
	switch attempt.Status {
	case models.PaymentSuccess:
		status = pollSuccess
	case models.PaymentFailed, models.PaymentCancelled:
		status = pollFailed
	}

	if status == pollPending {
		status = h.reconcilePending(c, attempt, status)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": gin.H{
			"status":      status,
			"amount":      attempt.Amount,
			"phoneNumber": attempt.PhoneNumber,
			"timestamp":   attempt.UpdatedAt,
		},
	})
}

// reconcilePending asks the verification proxy for the authoritative
// state of an in-flight attempt and settles the local row on a
// confirmed terminal answer. Proxy trouble leaves the local status
// untouched; the next poll retries.
func (h *Handler) reconcilePending(c *gin.Context, attempt *models.PaymentAttempt, status string) string {
	logger := utils.GetLogger()

	result, err := h.Gateway.VerifyPayment(c.Request.Context(), attempt.CheckoutRequestID)
	if err != nil {
		logger.Warn("Verification proxy query failed",
			zap.String("checkout_id", attempt.CheckoutRequestID), zap.Error(err))
		return status
	}

	switch result.Status {
	case models.PaymentSuccess:
		if _, err := repo.MarkAttemptStatus(h.DB, attempt.CheckoutRequestID, models.PaymentSuccess, "", ""); err != nil {
			logger.Error("Error updating transaction", zap.Error(err))
			return status
		}
		logger.Info("Proxy confirmed payment success", zap.String("checkout_id", attempt.CheckoutRequestID))
		return pollSuccess
	case models.PaymentFailed:
		if _, err := repo.MarkAttemptStatus(h.DB, attempt.CheckoutRequestID, models.PaymentFailed, "", ""); err != nil {
			logger.Error("Error updating transaction", zap.Error(err))
		}
		logger.Info("Proxy confirmed payment failed", zap.String("checkout_id", attempt.CheckoutRequestID))
		return pollFailed
	case models.PaymentCancelled:
		if _, err := repo.MarkAttemptStatus(h.DB, attempt.CheckoutRequestID, models.PaymentCancelled, "", ""); err != nil {
			logger.Error("Error updating transaction", zap.Error(err))
		}
		return pollFailed
	}

	return status
}
