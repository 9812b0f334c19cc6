package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 response and logs the stack
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					utils.GetRealIP(c),
					c.GetString(constants.ContextKeyRequestID),
					rec,
					debug.Stack(),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				utils.AbortWithMessage(c, http.StatusInternalServerError, common.MessageInternalError)
			}
		}()

		c.Next()
	}
}
