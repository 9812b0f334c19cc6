package middleware

import (
	"net/http"
	"strings"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists the origins a browser may call the relay from.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         string
}

// DefaultCORSConfig allows only what the contact endpoint needs
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "x-api-key"},
		MaxAge:         "86400",
	}
}

// CORS reflects allowed origins and answers preflight requests.
// Preflights from other origins get 403. Actual requests from other origins
// continue without CORS headers so the access gate decides their response.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(config.AllowedOrigins))
	for _, origin := range config.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		_, originAllowed := allowed[origin]
		preflight := c.Request.Method == http.MethodOptions &&
			c.Request.Header.Get("Access-Control-Request-Method") != ""

		if !originAllowed {
			if preflight {
				utils.AbortWithMessage(c, http.StatusForbidden, common.MessageAccessDenied)
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")

		if preflight {
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if config.MaxAge != "" {
				h.Set("Access-Control-Max-Age", config.MaxAge)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		h.Set("Access-Control-Expose-Headers", "RateLimit-Policy, RateLimit-Limit, RateLimit-Remaining, RateLimit-Reset, Retry-After")
		c.Next()
	}
}
