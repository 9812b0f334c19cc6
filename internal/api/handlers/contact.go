package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/osa911/contactrelay/internal/access"
	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/ratelimit"
	"github.com/osa911/contactrelay/internal/relay"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	pipeline *relay.Pipeline
	policy   ratelimit.Config
	logger   *logging.Logger
	now      func() time.Time
}

// NewContactHandler creates the handler. now must be the rate limiter's clock
// so reset headers line up with its windows.
func NewContactHandler(pipeline *relay.Pipeline, policy ratelimit.Config, now func() time.Time, logger *logging.Logger) *ContactHandler {
	if now == nil {
		now = time.Now
	}
	return &ContactHandler{
		pipeline: pipeline,
		policy:   policy,
		logger:   logger,
		now:      now,
	}
}

// Send relays one contact form submission by email
func (h *ContactHandler) Send(c *gin.Context) {
	body, err := middleware.RawBody(c)
	if err != nil {
		utils.HandleAPIError(c, h.logger, err, http.StatusBadRequest, common.MessageInvalidRequest)
		return
	}

	out := h.pipeline.Handle(c.Request.Context(), relay.Request{
		ClientID: utils.GetRealIP(c),
		APIKey:   c.GetHeader(constants.HeaderAPIKey),
		Origin:   access.RequestOrigin(c.GetHeader("Origin"), c.GetHeader("Referer")),
		Body:     body,
	})

	h.setRateLimitHeaders(c, out)
	h.logOutcome(c, out)

	c.JSON(out.Status, out.Body())
}

func (h *ContactHandler) setRateLimitHeaders(c *gin.Context, out relay.Outcome) {
	if out.RateLimit == nil {
		return
	}
	d := out.RateLimit
	now := h.now()

	c.Header("RateLimit-Policy", h.policy.Policy())
	c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	c.Header("RateLimit-Reset", strconv.Itoa(d.ResetSeconds(now)))

	if !d.Allowed {
		c.Header("Retry-After", strconv.Itoa(d.ResetSeconds(now)))
	}
}

func (h *ContactHandler) logOutcome(c *gin.Context, out relay.Outcome) {
	requestID := c.GetString(constants.ContextKeyRequestID)

	switch {
	case out.Status >= http.StatusInternalServerError:
		h.logger.LogHTTPError(c.Request.Method, c.Request.URL.Path, utils.GetRealIP(c), requestID, out.Status, out.Message, out.Err)
	case out.Status == http.StatusForbidden:
		h.logger.Warn("[%s] %s: %v", requestID, out.Stage, out.Err)
	case out.Err != nil:
		h.logger.Debug("[%s] %s: %v", requestID, out.Stage, out.Err)
	default:
		h.logger.Info("[%s] Contact message relayed for %s", requestID, utils.GetRealIP(c))
	}
}
