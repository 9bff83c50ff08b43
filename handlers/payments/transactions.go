package payments

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/utils"
)

const maxPageSize = 200

// TransactionRow is one line of the admin transactions explorer: a
// payment attempt joined with whatever it funded.
type TransactionRow struct {
	ID                  string    `json:"id"`
	CheckoutRequestID   string    `json:"checkout_request_id"`
	Purpose             string    `json:"purpose"`
	PhoneNumber         string    `json:"phone_number"`
	Amount              float64   `json:"amount"`
	PaymentStatus       string    `json:"payment_status"`
	PaymentCreatedAt    time.Time `json:"payment_created_at"`
	ApplicationEmail    *string   `json:"application_email"`
	ApplicationJobTitle *string   `json:"application_job_title"`
	InterviewCompany    *string   `json:"interview_company"`
	InterviewPosition   *string   `json:"interview_position"`
}

// ListTransactions serves the paginated admin view over payment
// attempts, filterable by purpose, status and a free-text needle.
func (h *Handler) ListTransactions(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	pageSize := parsePositiveInt(c.Query("pageSize"), 25)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := strings.TrimSpace(c.Query("q"))
	purpose := strings.TrimSpace(c.Query("purpose"))
	status := strings.TrimSpace(c.Query("status"))

	// Count and scan each get a fresh chain; reusing one gorm chain
	// across both leaks statement state.
	filtered := func() *gorm.DB {
		query := h.DB.Table("payment_attempts").
			Select(`payment_attempts.id,
				payment_attempts.checkout_request_id,
				payment_attempts.purpose,
				payment_attempts.phone_number,
				payment_attempts.amount,
				payment_attempts.status AS payment_status,
				payment_attempts.created_at AS payment_created_at,
				applications.email AS application_email,
				applications.job_title AS application_job_title,
				interview_bookings.company AS interview_company,
				interview_bookings.position AS interview_position`).
			Joins("LEFT JOIN applications ON applications.id = payment_attempts.application_id").
			Joins("LEFT JOIN interview_bookings ON interview_bookings.id = payment_attempts.interview_booking_id")

		if purpose != "" {
			query = query.Where("payment_attempts.purpose = ?", purpose)
		}
		if status != "" {
			query = query.Where("payment_attempts.status = ?", status)
		}
		if q != "" {
			needle := "%" + strings.ToLower(strings.ReplaceAll(q, "%", "")) + "%"
			query = query.Where(
				`LOWER(payment_attempts.checkout_request_id) LIKE ?
				OR LOWER(payment_attempts.phone_number) LIKE ?
				OR LOWER(COALESCE(applications.email, '')) LIKE ?
				OR LOWER(COALESCE(applications.job_title, '')) LIKE ?
				OR LOWER(COALESCE(interview_bookings.company, '')) LIKE ?
				OR LOWER(COALESCE(interview_bookings.position, '')) LIKE ?`,
				needle, needle, needle, needle, needle, needle)
		}
		return query
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		utils.GetLogger().Error("transactions count error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load transactions", "error": err.Error()})
		return
	}

	var rows []TransactionRow
	err := filtered().Order("payment_attempts.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		utils.GetLogger().Error("transactions query error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load transactions", "error": err.Error()})
		return
	}

	if rows == nil {
		rows = []TransactionRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     rows,
		"count":    count,
		"page":     page,
		"pageSize": pageSize,
	})
}

func parsePositiveInt(val string, fallback int) int {
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
