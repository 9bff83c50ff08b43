package payments

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/swiftpay"
)

func TestInitiatePaymentMissingPhone(t *testing.T) {
	h := NewHandler(newTestDB(t), &MockGateway{})
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{})
	requireStatus(t, w, http.StatusBadRequest)

	if gw := h.Gateway.(*MockGateway); gw.STKPushCalls != 0 {
		t.Errorf("STK push called %d times for invalid request", gw.STKPushCalls)
	}
}

func TestInitiatePaymentInvalidPhone(t *testing.T) {
	h := NewHandler(newTestDB(t), &MockGateway{})
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{"phoneNumber": "12345"})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestInitiatePaymentProviderRejection(t *testing.T) {
	gw := &MockGateway{
		STKPushFunc: func(ctx context.Context, phone string, amount float64) (*swiftpay.STKPushResult, error) {
			return nil, &swiftpay.ProviderError{Message: "Insufficient till balance"}
		},
	}
	h := NewHandler(newTestDB(t), gw)
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{"phoneNumber": "0712345678"})
	requireStatus(t, w, http.StatusBadRequest)

	body := decodeBody(t, w)
	if body["message"] != "Insufficient till balance" {
		t.Errorf("message = %v, want provider message", body["message"])
	}
}

func TestInitiatePaymentBadProviderResponse(t *testing.T) {
	gw := &MockGateway{
		STKPushFunc: func(ctx context.Context, phone string, amount float64) (*swiftpay.STKPushResult, error) {
			return nil, swiftpay.ErrBadProviderResponse
		},
	}
	h := NewHandler(newTestDB(t), gw)
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{"phoneNumber": "0712345678"})
	requireStatus(t, w, http.StatusBadGateway)
}

func TestInitiatePaymentCreatesPendingAttempt(t *testing.T) {
	db := newTestDB(t)
	var seenPhone string
	var seenAmount float64
	gw := &MockGateway{
		STKPushFunc: func(ctx context.Context, phone string, amount float64) (*swiftpay.STKPushResult, error) {
			seenPhone, seenAmount = phone, amount
			return &swiftpay.STKPushResult{CheckoutRequestID: "ws_CO_42"}, nil
		},
	}
	h := NewHandler(db, gw)
	r := newTestRouter(h)

	app := models.Application{
		ID:            uuid.NewString(),
		ProjectName:   "CANADAADS",
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "254712345678",
		PaymentStatus: models.ApplicationUnpaid,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{
		"phoneNumber":   "0712 345-678",
		"applicationId": app.ID,
	})
	requireStatus(t, w, http.StatusOK)

	if seenPhone != "254712345678" {
		t.Errorf("provider saw phone %q, want normalized MSISDN", seenPhone)
	}
	if seenAmount != DefaultAmount {
		t.Errorf("provider saw amount %v, want default %v", seenAmount, DefaultAmount)
	}

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	if data["checkoutRequestId"] != "ws_CO_42" {
		t.Errorf("checkoutRequestId = %v", data["checkoutRequestId"])
	}

	var attempt models.PaymentAttempt
	if err := db.Where("checkout_request_id = ?", "ws_CO_42").First(&attempt).Error; err != nil {
		t.Fatalf("attempt row not found: %v", err)
	}
	if attempt.Status != models.PaymentPending {
		t.Errorf("attempt status = %q, want pending", attempt.Status)
	}
	if attempt.Purpose != models.PurposeApplication {
		t.Errorf("purpose = %q, want application", attempt.Purpose)
	}
	if attempt.ApplicationID == nil || *attempt.ApplicationID != app.ID {
		t.Errorf("application linkage missing on attempt")
	}

	var updated models.Application
	if err := db.First(&updated, "id = ?", app.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if updated.PaymentStatus != models.ApplicationPending {
		t.Errorf("application payment_status = %q, want pending", updated.PaymentStatus)
	}
	if updated.PaymentReference == nil || *updated.PaymentReference != "ws_CO_42" {
		t.Errorf("application payment_reference not set to checkout id")
	}
}

func TestInitiatePaymentFallbackReference(t *testing.T) {
	db := newTestDB(t)
	gw := &MockGateway{
		STKPushFunc: func(ctx context.Context, phone string, amount float64) (*swiftpay.STKPushResult, error) {
			return &swiftpay.STKPushResult{}, nil
		},
	}
	h := NewHandler(db, gw)
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{"phoneNumber": "0712345678"})
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	ref, _ := data["checkoutRequestId"].(string)
	if len(ref) == 0 || ref[:10] != "CANADAADS-" {
		t.Errorf("fallback reference = %q, want CANADAADS- prefix", ref)
	}

	var attempt models.PaymentAttempt
	if err := db.Where("checkout_request_id = ?", ref).First(&attempt).Error; err != nil {
		t.Fatalf("attempt not recorded under fallback reference: %v", err)
	}
}

func TestInitiatePaymentCreatesInterviewBooking(t *testing.T) {
	db := newTestDB(t)
	h := NewHandler(db, &MockGateway{})
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{
		"phoneNumber":       "0712345678",
		"purpose":           models.PurposeInterviewBooking,
		"interviewCompany":  "Maple Logistics",
		"interviewPosition": "Warehouse Worker",
		"interviewType":     "video",
		"interviewAt":       "2026-09-15T10:00:00Z",
	})
	requireStatus(t, w, http.StatusOK)

	var booking models.InterviewBooking
	if err := db.First(&booking).Error; err != nil {
		t.Fatalf("booking row not created: %v", err)
	}
	if booking.Company != "Maple Logistics" {
		t.Errorf("booking company = %q", booking.Company)
	}
	if booking.InterviewAt == nil {
		t.Errorf("booking schedule not stored")
	}
	if booking.UserID == "" {
		t.Errorf("booking user id not synthesized")
	}

	var attempt models.PaymentAttempt
	if err := db.First(&attempt).Error; err != nil {
		t.Fatalf("attempt not created: %v", err)
	}
	if attempt.InterviewBookingID == nil || *attempt.InterviewBookingID != booking.ID {
		t.Errorf("attempt not linked to created booking")
	}
	if attempt.Purpose != models.PurposeInterviewBooking {
		t.Errorf("purpose = %q", attempt.Purpose)
	}
}

func TestInitiatePaymentBookingWithoutScheduleStillSucceeds(t *testing.T) {
	db := newTestDB(t)
	h := NewHandler(db, &MockGateway{})
	r := newTestRouter(h)

	w := postJSON(t, r, "/api/initiate-payment", map[string]interface{}{
		"phoneNumber": "0712345678",
		"purpose":     models.PurposeInterviewBooking,
	})
	requireStatus(t, w, http.StatusOK)

	var booking models.InterviewBooking
	if err := db.First(&booking).Error; err != nil {
		t.Fatalf("booking row not created: %v", err)
	}
	if booking.InterviewAt != nil {
		t.Errorf("unexpected schedule on booking")
	}
}
