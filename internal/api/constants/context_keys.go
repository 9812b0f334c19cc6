package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyRequestID = "requestID"
	ContextKeyRawBody   = "rawBody"
)

// Request headers
const (
	HeaderAPIKey    = "x-api-key"
	HeaderRequestID = "X-Request-ID"
)
