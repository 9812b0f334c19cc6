package middleware

import (
	"time"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request when LOG_REQUESTS is on
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.LogHTTPRequest(
			method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
