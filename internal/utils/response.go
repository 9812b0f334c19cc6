package utils

import (
	"github.com/osa911/contactrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleMessage sends a {"message": ...} body with the given status
func HandleMessage(c *gin.Context, status int, message string) {
	c.JSON(status, common.NewMessageResponse(message))
}

// AbortWithMessage sends a {"message": ...} body and stops the handler chain
func AbortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, common.NewMessageResponse(message))
}
