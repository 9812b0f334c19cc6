package utils

import (
	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs the cause and responds with a generic message.
// The cause never reaches the client.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error, status int, message string) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		c.GetString(constants.ContextKeyRequestID),
		status,
		message,
		err,
	)
	AbortWithMessage(c, status, message)
}
