package common

// MessageResponse is the body of every relay response
type MessageResponse struct {
	Message string `json:"message"`
}

// Response messages
const (
	MessageSent            = "Message sent"
	MessageTooManyRequests = "Too many requests"
	MessageAccessDenied    = "Access denied"
	MessageInvalidRequest  = "Invalid request"
	MessageInternalError   = "Internal server error"
	MessagePayloadTooLarge = "Payload too large"
	MessageNotFound        = "Not found"
)

// NewMessageResponse creates a response carrying only a message
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

// HealthResponse reports liveness and build information
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Mode        string `json:"mode"`
	MailReady   bool   `json:"mailReady"`
}
