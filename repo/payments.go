package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
)

// FindAttemptByCheckout loads a payment attempt by its provider-issued
// checkout id. A missing row returns (nil, nil); callers treat unknown
// references as still in flight.
func FindAttemptByCheckout(db *gorm.DB, checkoutID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	err := db.Where("checkout_request_id = ?", checkoutID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// MarkAttemptStatus moves an attempt from pending into a terminal
// state. The update is conditional on the row still being pending so a
// late duplicate webhook cannot overwrite a settled outcome; the return
// value reports whether this call performed the transition.
func MarkAttemptStatus(db *gorm.DB, checkoutID, status, transactionID, receipt string) (bool, error) {
	updates := map[string]interface{}{"status": status}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if receipt != "" {
		updates["transaction_receipt"] = receipt
	}

	res := db.Model(&models.PaymentAttempt{}).
		Where("checkout_request_id = ? AND status = ?", checkoutID, models.PaymentPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkApplicationPaid records a confirmed payment on the linked
// application. The attempt's stored application id wins; when no
// linkage was recorded at initiation time, fall back to matching the
// application whose payment_reference carries the same checkout id.
func MarkApplicationPaid(db *gorm.DB, attempt *models.PaymentAttempt) error {
	updates := map[string]interface{}{
		"payment_status":    models.ApplicationPaid,
		"payment_reference": attempt.CheckoutRequestID,
	}

	query := db.Model(&models.Application{})
	if attempt.ApplicationID != nil && *attempt.ApplicationID != "" {
		query = query.Where("id = ?", *attempt.ApplicationID)
	} else {
		query = query.Where("payment_reference = ?", attempt.CheckoutRequestID)
	}

	return query.Updates(updates).Error
}
