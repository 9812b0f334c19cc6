package routes

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all routes
func Setup(router *gin.Engine, h *Handlers, logger *logging.Logger) {
	SetupHealthRoutes(router, h.Health)
	SetupContactRoutes(router, h.Contact)

	router.NoRoute(func(c *gin.Context) {
		utils.HandleMessage(c, http.StatusNotFound, common.MessageNotFound)
	})

	logger.Debug("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, cfg *config.Config, logger *logging.Logger) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	if cfg.OTLPEndpoint != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Origins())))
	router.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		RPS:   cfg.GlobalRateLimitRPS,
		Burst: cfg.GlobalRateLimitBurst,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
}
