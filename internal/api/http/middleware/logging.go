package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/authkit/server/internal/logger"
)

// Logging logs each request with method, path, status and duration.
func Logging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
