package repo

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.Application{}, &models.PaymentAttempt{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createAttempt(t *testing.T, db *gorm.DB, status string, appID *string) models.PaymentAttempt {
	t.Helper()

	attempt := models.PaymentAttempt{
		ID:                uuid.NewString(),
		CheckoutRequestID: "ws_CO_" + uuid.NewString(),
		ApplicationID:     appID,
		Purpose:           models.PurposeApplication,
		PhoneNumber:       "254712345678",
		Amount:            250,
		Status:            status,
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	return attempt
}

func TestFindAttemptByCheckout(t *testing.T) {
	db := newTestDB(t)
	attempt := createAttempt(t, db, models.PaymentPending, nil)

	found, err := FindAttemptByCheckout(db, attempt.CheckoutRequestID)
	if err != nil {
		t.Fatalf("FindAttemptByCheckout: %v", err)
	}
	if found == nil || found.ID != attempt.ID {
		t.Errorf("found = %+v, want attempt %s", found, attempt.ID)
	}

	missing, err := FindAttemptByCheckout(db, "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error for missing row: %v", err)
	}
	if missing != nil {
		t.Errorf("missing row returned %+v, want nil", missing)
	}
}

func TestMarkAttemptStatusTransitionsPendingOnly(t *testing.T) {
	db := newTestDB(t)
	attempt := createAttempt(t, db, models.PaymentPending, nil)

	transitioned, err := MarkAttemptStatus(db, attempt.CheckoutRequestID, models.PaymentSuccess, "TX1", "RCT1")
	if err != nil {
		t.Fatalf("MarkAttemptStatus: %v", err)
	}
	if !transitioned {
		t.Fatalf("first transition reported no-op")
	}

	var reloaded models.PaymentAttempt
	if err := db.First(&reloaded, "id = ?", attempt.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.PaymentSuccess || reloaded.TransactionID != "TX1" {
		t.Errorf("transition not recorded: %+v", reloaded)
	}

	// Terminal rows stay terminal.
	transitioned, err = MarkAttemptStatus(db, attempt.CheckoutRequestID, models.PaymentFailed, "", "")
	if err != nil {
		t.Fatalf("second MarkAttemptStatus: %v", err)
	}
	if transitioned {
		t.Errorf("terminal attempt transitioned again")
	}

	if err := db.First(&reloaded, "id = ?", attempt.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.PaymentSuccess {
		t.Errorf("status regressed to %q", reloaded.Status)
	}
}

func TestMarkApplicationPaidByLinkedID(t *testing.T) {
	db := newTestDB(t)

	app := models.Application{
		ID:            uuid.NewString(),
		ProjectName:   "CANADAADS",
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "254712345678",
		PaymentStatus: models.ApplicationPending,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}

	attempt := createAttempt(t, db, models.PaymentSuccess, &app.ID)

	if err := MarkApplicationPaid(db, &attempt); err != nil {
		t.Fatalf("MarkApplicationPaid: %v", err)
	}

	var reloaded models.Application
	if err := db.First(&reloaded, "id = ?", app.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.ApplicationPaid {
		t.Errorf("payment_status = %q, want paid", reloaded.PaymentStatus)
	}
	if reloaded.PaymentReference == nil || *reloaded.PaymentReference != attempt.CheckoutRequestID {
		t.Errorf("payment_reference not set to checkout id")
	}
}

func TestMarkApplicationPaidFallsBackToReference(t *testing.T) {
	db := newTestDB(t)
	attempt := createAttempt(t, db, models.PaymentSuccess, nil)

	ref := attempt.CheckoutRequestID
	app := models.Application{
		ID:               uuid.NewString(),
		ProjectName:      "CANADAADS",
		FullName:         "John Doe",
		Email:            "john@example.com",
		Phone:            "254712345678",
		PaymentStatus:    models.ApplicationPending,
		PaymentReference: &ref,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}

	if err := MarkApplicationPaid(db, &attempt); err != nil {
		t.Fatalf("MarkApplicationPaid: %v", err)
	}

	var reloaded models.Application
	if err := db.First(&reloaded, "id = ?", app.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PaymentStatus != models.ApplicationPaid {
		t.Errorf("fallback match did not mark application paid, status = %q", reloaded.PaymentStatus)
	}
}
