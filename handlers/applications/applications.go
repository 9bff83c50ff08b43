package applications

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/utils"
)

// ActivationFee is recorded on every application; payment itself runs
// through the payment initiator.
const ActivationFee = 160

const projectName = "CANADAADS"

// Handler serves the application submission endpoint.
type Handler struct {
	DB     *gorm.DB
	Mailer utils.Mailer
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type submitRequest struct {
	Phone            string                 `json:"phone"`
	Email            string                 `json:"email"`
	FullName         string                 `json:"fullName"`
	JobTitle         string                 `json:"jobTitle"`
	UserID           string                 `json:"userId"`
	PaymentReference string                 `json:"paymentReference"`
	ProjectData      map[string]interface{} `json:"projectData"`
	FormData         map[string]interface{} `json:"formData"`
}

// SubmitApplication stores one job application. Submissions are
// idempotent by email: a duplicate returns the existing row, and when
// that lookup fails a disambiguated address keeps the insert alive.
func (h *Handler) SubmitApplication(c *gin.Context) {
	logger := utils.GetLogger()

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Request body is missing or invalid"})
		return
	}

	if req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: phone"})
		return
	}

	normalizedPhone, ok := utils.NormalizePhone(req.Phone)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid phone number. Use 07XXXXXXXX or 254XXXXXXXXX"})
		return
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))
	finalEmail := normalizedEmail
	if finalEmail == "" {
		finalEmail = fallbackEmail()
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = req.UserID
	}
	if fullName == "" {
		fullName = "Canada Ads User"
	}

	projectData := req.ProjectData
	if projectData == nil {
		projectData = req.FormData
	}
	if projectData == nil {
		projectData = map[string]interface{}{}
	}
	if req.UserID != "" {
		projectData["userId"] = req.UserID
	} else {
		projectData["userId"] = "guest-user"
	}
	projectData["activationFee"] = ActivationFee
	projectData["submittedAt"] = time.Now().UTC().Format(time.RFC3339)
	if req.JobTitle != "" {
		projectData["jobTitle"] = req.JobTitle
	}

	projectJSON, err := json.Marshal(projectData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	application := models.Application{
		ID:            uuid.NewString(),
		ProjectName:   projectName,
		FullName:      fullName,
		Email:         finalEmail,
		Phone:         normalizedPhone,
		JobTitle:      req.JobTitle,
		ProjectData:   datatypes.JSON(projectJSON),
		PaymentAmount: ActivationFee,
		PaymentStatus: models.ApplicationUnpaid,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.GetHeader("User-Agent"),
	}
	if req.PaymentReference != "" {
		ref := req.PaymentReference
		application.PaymentReference = &ref
	}

	err = h.DB.Create(&application).Error

	if err != nil && normalizedEmail != "" && isDuplicateEmailError(err) {
		var existing models.Application
		lookupErr := h.DB.Where("email = ?", finalEmail).
			Order("created_at DESC").
			First(&existing).Error
		if lookupErr == nil {
			logger.Info("Application already exists for email", zap.String("application_id", existing.ID))
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Application already submitted",
				"data":    gin.H{"applicationId": existing.ID, "reference": existing.PaymentReference},
			})
			return
		}

		application.ID = uuid.NewString()
		application.Email = disambiguateEmail(finalEmail)
		err = h.DB.Create(&application).Error
	}

	if err != nil {
		logger.Error("Database insert error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save application", "error": err.Error()})
		return
	}

	if normalizedEmail != "" {
		go h.Mailer.SendApplicationReceivedEmail(normalizedEmail, fullName, req.JobTitle)
	}

	logger.Info("Application saved successfully", zap.String("application_id", application.ID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Application submitted successfully",
		"data":    gin.H{"applicationId": application.ID, "reference": application.PaymentReference},
	})
}

func isDuplicateEmailError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

func fallbackEmail() string {
	return fmt.Sprintf("canadaads+%d@application.com", time.Now().UnixMilli())
}

func disambiguateEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	local, domain := "canadaads", "application.com"
	if len(parts) == 2 {
		if parts[0] != "" {
			local = parts[0]
		}
		if parts[1] != "" {
			domain = parts[1]
		}
	}
	return fmt.Sprintf("%s+%d@%s", local, time.Now().UnixMilli(), domain)
}
