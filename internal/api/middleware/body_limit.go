package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// BodyLimit reads the request body once, up to maxBytes, and stores it in the
// context under ContextKeyRawBody. Larger bodies get 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			utils.AbortWithMessage(c, http.StatusRequestEntityTooLarge, common.MessagePayloadTooLarge)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.AbortWithMessage(c, http.StatusRequestEntityTooLarge, common.MessagePayloadTooLarge)
				return
			}
			utils.AbortWithMessage(c, http.StatusBadRequest, common.MessageInvalidRequest)
			return
		}

		c.Set(constants.ContextKeyRawBody, body)
		c.Next()
	}
}

// RawBody returns the body stored by BodyLimit, reading it directly otherwise
func RawBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(constants.ContextKeyRawBody); ok {
		if body, ok := v.([]byte); ok {
			return body, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}
