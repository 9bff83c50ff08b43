package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/swiftpay"
)

// MockGateway implements swiftpay.Gateway for handler tests.
type MockGateway struct {
	STKPushFunc  func(ctx context.Context, phoneNumber string, amount float64) (*swiftpay.STKPushResult, error)
	VerifyFunc   func(ctx context.Context, checkoutID string) (*swiftpay.VerifyResult, error)
	VerifyCalls  int
	STKPushCalls int
}

func (m *MockGateway) STKPush(ctx context.Context, phoneNumber string, amount float64) (*swiftpay.STKPushResult, error) {
	m.STKPushCalls++
	if m.STKPushFunc != nil {
		return m.STKPushFunc(ctx, phoneNumber, amount)
	}
	return &swiftpay.STKPushResult{CheckoutRequestID: "ws_CO_TEST123"}, nil
}

func (m *MockGateway) VerifyPayment(ctx context.Context, checkoutID string) (*swiftpay.VerifyResult, error) {
	m.VerifyCalls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, checkoutID)
	}
	return &swiftpay.VerifyResult{Status: models.PaymentPending}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(&models.Application{}, &models.PaymentAttempt{}, &models.InterviewBooking{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/initiate-payment", h.InitiatePayment)
	r.POST("/api/payment-callback", h.PaymentCallback)
	r.GET("/api/payment-status", h.PaymentStatus)
	r.GET("/api/transactions", h.ListTransactions)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func seedAttempt(t *testing.T, db *gorm.DB, attempt models.PaymentAttempt) models.PaymentAttempt {
	t.Helper()
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	return attempt
}
