package routes

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures the contact relay endpoint
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler) {
	router.POST("/send-email", contact.Send)

	// Preflights from allowed origins are answered by the CORS middleware
	router.OPTIONS("/send-email", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}
