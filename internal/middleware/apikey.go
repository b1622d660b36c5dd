package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/fahrschule-lenz/backend/pkg/response"
)

// RequireAPIKey guards admin endpoints with a static key passed in the
// X-API-Key header. An empty configured key disables the admin surface
// entirely.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.ServiceUnavailable(c, "admin interface is not configured")
			c.Abort()
			return
		}
		got := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			response.Unauthorized(c, "invalid api key")
			c.Abort()
			return
		}
		c.Next()
	}
}
