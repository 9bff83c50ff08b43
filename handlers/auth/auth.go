package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
	"github.com/perejack/canadaman/utils"
)

// Handler serves portal account signup and login.
type Handler struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewHandler(db *gorm.DB, jwtSecret []byte) *Handler {
	return &Handler{DB: db, JWTSecret: jwtSecret}
}

type signupRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Metadata map[string]string `json:"metadata"`
}

// Signup creates a portal account. The metadata map carries the
// profile fields the application form collects.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: email"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: password"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	meta := req.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	username := meta["username"]
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	fullName := meta["full_name"]
	if fullName == "" {
		fullName = meta["fullName"]
	}

	user := models.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		Password:        string(hashed),
		FullName:        fullName,
		Phone:           meta["phone"],
		Location:        meta["location"],
		DateOfBirth:     meta["date_of_birth"],
		PositionApplied: meta["position_applied"],
	}

	if err := h.DB.Create(&user).Error; err != nil {
		utils.GetLogger().Warn("Signup insert failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "An account with this email already exists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: email"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required field: password"})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateAccessToken(h.JWTSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": userPayload(user)})
}

func userPayload(user models.User) gin.H {
	return gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"email":           user.Email,
		"fullName":        user.FullName,
		"phone":           user.Phone,
		"location":        user.Location,
		"dateOfBirth":     user.DateOfBirth,
		"positionApplied": user.PositionApplied,
		"createdAt":       user.CreatedAt,
	}
}
