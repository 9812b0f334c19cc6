package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client identity used for rate limiting.
// Forwarding headers are honoured only when the peer is a trusted proxy
// (see gin.Engine.SetTrustedProxies); otherwise the socket address is used.
func GetRealIP(c *gin.Context) string {
	return c.ClientIP()
}
