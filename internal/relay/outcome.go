package relay

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

// Stage names, in execution order.
const (
	StageRate     = "rate"
	StageAccess   = "access"
	StageValidate = "validate"
	StageDispatch = "dispatch"
)

// Outcome is the single response a request ends with.
type Outcome struct {
	Status  int
	Message string
	// Stage is the stage that produced the outcome.
	Stage string
	// Err carries the cause for logs. It never reaches the client.
	Err error
	// RateLimit is set once the rate stage has run.
	RateLimit *ratelimit.Decision
}

// OK reports whether the request succeeded.
func (o Outcome) OK() bool {
	return o.Status == http.StatusOK
}

// Body returns the JSON response body.
func (o Outcome) Body() common.MessageResponse {
	return common.NewMessageResponse(o.Message)
}

func rateLimited(err error) *Outcome {
	return &Outcome{Status: http.StatusTooManyRequests, Message: common.MessageTooManyRequests, Stage: StageRate, Err: err}
}

func accessDenied(err error) *Outcome {
	return &Outcome{Status: http.StatusForbidden, Message: common.MessageAccessDenied, Stage: StageAccess, Err: err}
}

func invalidRequest(err error) *Outcome {
	return &Outcome{Status: http.StatusBadRequest, Message: common.MessageInvalidRequest, Stage: StageValidate, Err: err}
}

func internalError(err error) *Outcome {
	return &Outcome{Status: http.StatusInternalServerError, Message: common.MessageInternalError, Stage: StageDispatch, Err: err}
}

func sent() *Outcome {
	return &Outcome{Status: http.StatusOK, Message: common.MessageSent, Stage: StageDispatch}
}
