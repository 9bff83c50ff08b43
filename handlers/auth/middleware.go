package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware gates the transactions explorer. The token comes
// from X-Admin-Token or a Bearer Authorization header. Production with
// no token configured is a misconfiguration, not an open door; outside
// production an unset token leaves the endpoint open for local work.
func AdminAuthMiddleware(expectedToken string, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := extractAdminToken(c)

		if isProduction {
			if expectedToken == "" {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server misconfigured"})
				c.Abort()
				return
			}
			if provided != expectedToken {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
				c.Abort()
				return
			}
		} else if expectedToken != "" && provided != expectedToken {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func extractAdminToken(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader("X-Admin-Token")); header != "" {
		return header
	}

	auth := c.GetHeader("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}

	return ""
}
