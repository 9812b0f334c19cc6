package handlers

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/version"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	environment string
	mode        string
	mailReady   func() error
}

func NewHealthHandler(environment, mode string, mailReady func() error) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		mode:        mode,
		mailReady:   mailReady,
	}
}

// Check reports liveness. Missing mail configuration is reported, not failed,
// since the process itself is healthy.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Version:     version.Version,
		Environment: h.environment,
		Mode:        h.mode,
		MailReady:   h.mailReady == nil || h.mailReady() == nil,
	})
}
