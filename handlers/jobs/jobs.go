package jobs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/perejack/canadaman/models"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// ListJobs returns the seeded job catalog, featured roles first.
func (h *Handler) ListJobs(c *gin.Context) {
	var jobs []models.Job
	if err := h.DB.Order("featured DESC, title ASC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": jobs})
}
