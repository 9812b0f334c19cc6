package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the process-wide request ceiling
type RateLimitConfig struct {
	// Requests per second; zero disables the limiter
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
}

// RateLimitMiddleware caps total throughput across all clients. It sits in
// front of the per-client window and protects the process, not the inbox.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.RPS <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	burst := config.Burst
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(config.RPS), burst)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !limiter.Allow() {
			wait := time.Duration(float64(time.Second) / config.RPS)
			c.Header("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
			utils.AbortWithMessage(c, http.StatusTooManyRequests, common.MessageTooManyRequests)
			return
		}

		c.Next()
	}
}
