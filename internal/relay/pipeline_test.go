package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/access"
	"github.com/osa911/contactrelay/internal/api/dto/v1/contact"
	"github.com/osa911/contactrelay/internal/api/validation"
	"github.com/osa911/contactrelay/internal/mail"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

const (
	testKey    = "s3cret"
	testOrigin = "https://serge.dev"
	validBody  = `{"name":"Ana","email":"ana@x.com","subject":"Hi","message":"Line1\nLine2"}`
)

type fakeDispatcher struct {
	mu       sync.Mutex
	readyErr error
	sendErr  error
	calls    []mail.Submission
}

func (f *fakeDispatcher) Ready() error { return f.readyErr }

func (f *fakeDispatcher) Dispatch(_ context.Context, s mail.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return f.sendErr
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingDecoder struct {
	inner *validation.Validator
	calls atomic.Int32
}

func (c *countingDecoder) DecodeContact(body []byte) (*contact.ContactRequest, error) {
	c.calls.Add(1)
	return c.inner.DecodeContact(body)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	pipeline   *Pipeline
	dispatcher *fakeDispatcher
	decoder    *countingDecoder
	clock      *clock
}

func newFixture(t *testing.T, cfg ratelimit.Config) *fixture {
	t.Helper()

	clk := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	limiter, err := ratelimit.New(store, cfg, ratelimit.WithClock(clk.Now))
	require.NoError(t, err)

	f := &fixture{
		dispatcher: &fakeDispatcher{},
		decoder:    &countingDecoder{inner: validation.New()},
		clock:      clk,
	}
	f.pipeline = NewPipeline(limiter, access.NewGate(testKey, []string{testOrigin}), f.decoder, f.dispatcher)
	return f
}

func validRequest() Request {
	return Request{ClientID: "10.0.0.1", APIKey: testKey, Origin: testOrigin, Body: []byte(validBody)}
}

func TestHandleSuccess(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)

	out := f.pipeline.Handle(context.Background(), validRequest())

	assert.True(t, out.OK())
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, "Message sent", out.Body().Message)
	assert.NoError(t, out.Err)
	require.NotNil(t, out.RateLimit)
	assert.Equal(t, 4, out.RateLimit.Remaining)

	require.Equal(t, 1, f.dispatcher.callCount())
	assert.Equal(t, mail.Submission{Name: "Ana", Email: "ana@x.com", Subject: "Hi", Message: "Line1\nLine2"}, f.dispatcher.calls[0])
}

func TestHandleMissingField(t *testing.T) {
	bodies := map[string]string{
		"name":    `{"email":"ana@x.com","subject":"Hi","message":"m"}`,
		"email":   `{"name":"Ana","subject":"Hi","message":"m"}`,
		"subject": `{"name":"Ana","email":"ana@x.com","message":"m"}`,
		"message": `{"name":"Ana","email":"ana@x.com","subject":"Hi"}`,
	}

	for field, body := range bodies {
		t.Run(field, func(t *testing.T) {
			f := newFixture(t, ratelimit.StrictConfig)
			req := validRequest()
			req.Body = []byte(body)

			out := f.pipeline.Handle(context.Background(), req)
			assert.Equal(t, http.StatusBadRequest, out.Status)
			assert.Equal(t, "Invalid request", out.Message)
			assert.Equal(t, StageValidate, out.Stage)
			assert.ErrorIs(t, out.Err, ErrValidationFailed)
			assert.Zero(t, f.dispatcher.callCount())
		})
	}
}

func TestHandleMalformedBody(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)
	req := validRequest()
	req.Body = []byte(`{"name":`)

	out := f.pipeline.Handle(context.Background(), req)
	assert.Equal(t, http.StatusBadRequest, out.Status)
	assert.ErrorIs(t, out.Err, validation.ErrInvalidBody)
}

func TestHandleMailNotConfigured(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)
	f.dispatcher.readyErr = mail.ErrNotConfigured

	out := f.pipeline.Handle(context.Background(), validRequest())
	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, "Internal server error", out.Message)
	assert.ErrorIs(t, out.Err, ErrConfigurationMissing)
	assert.Zero(t, f.dispatcher.callCount(), "dispatcher must not be invoked")
}

func TestHandleDispatchFailure(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)
	f.dispatcher.sendErr = errors.New("535 5.7.8 Username and Password not accepted")

	out := f.pipeline.Handle(context.Background(), validRequest())
	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, "Internal server error", out.Message)
	assert.ErrorIs(t, out.Err, ErrDispatchFailed)
	assert.NotContains(t, out.Message, "535")
}

func TestHandleAccessDenied(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		origin string
	}{
		{"wrong key no origin", "nope", ""},
		{"missing key", "", testOrigin},
		{"foreign origin", testKey, "https://evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, ratelimit.StrictConfig)
			req := validRequest()
			req.APIKey = tt.key
			req.Origin = tt.origin

			out := f.pipeline.Handle(context.Background(), req)
			assert.Equal(t, http.StatusForbidden, out.Status)
			assert.Equal(t, "Access denied", out.Message)
			assert.ErrorIs(t, out.Err, ErrAccessDenied)
			assert.ErrorIs(t, out.Err, access.ErrAccessDenied)
			assert.Zero(t, f.decoder.calls.Load(), "validator must not run")
			assert.Zero(t, f.dispatcher.callCount())
		})
	}
}

func TestHandleAbsentOriginAllowed(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)
	req := validRequest()
	req.Origin = ""

	out := f.pipeline.Handle(context.Background(), req)
	assert.Equal(t, http.StatusOK, out.Status)
}

func TestHandleRateLimitWindow(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)

	for i := 0; i < ratelimit.StrictConfig.Limit; i++ {
		out := f.pipeline.Handle(context.Background(), validRequest())
		require.Equal(t, http.StatusOK, out.Status, "request %d", i+1)
	}

	out := f.pipeline.Handle(context.Background(), validRequest())
	assert.Equal(t, http.StatusTooManyRequests, out.Status)
	assert.Equal(t, "Too many requests", out.Message)
	assert.ErrorIs(t, out.Err, ErrRateLimited)
	require.NotNil(t, out.RateLimit)
	assert.False(t, out.RateLimit.Allowed)
	assert.Equal(t, ratelimit.StrictConfig.Limit, f.dispatcher.callCount())

	f.clock.Advance(ratelimit.StrictConfig.Window)
	out = f.pipeline.Handle(context.Background(), validRequest())
	assert.Equal(t, http.StatusOK, out.Status)
}

func TestRateLimitRunsBeforeAccess(t *testing.T) {
	f := newFixture(t, ratelimit.Config{Window: time.Minute, Limit: 2})
	bad := validRequest()
	bad.APIKey = "nope"

	assert.Equal(t, http.StatusForbidden, f.pipeline.Handle(context.Background(), bad).Status)
	assert.Equal(t, http.StatusForbidden, f.pipeline.Handle(context.Background(), bad).Status)
	assert.Equal(t, http.StatusTooManyRequests, f.pipeline.Handle(context.Background(), bad).Status)
	assert.Equal(t, http.StatusTooManyRequests, f.pipeline.Handle(context.Background(), validRequest()).Status)
}

func TestRateLimitIsPerClient(t *testing.T) {
	f := newFixture(t, ratelimit.Config{Window: time.Minute, Limit: 1})

	assert.Equal(t, http.StatusOK, f.pipeline.Handle(context.Background(), validRequest()).Status)
	assert.Equal(t, http.StatusTooManyRequests, f.pipeline.Handle(context.Background(), validRequest()).Status)

	other := validRequest()
	other.ClientID = "10.0.0.2"
	assert.Equal(t, http.StatusOK, f.pipeline.Handle(context.Background(), other).Status)
}

func TestConcurrentRequestsNeverExceedLimit(t *testing.T) {
	f := newFixture(t, ratelimit.StrictConfig)

	var wg sync.WaitGroup
	var ok, limited atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch f.pipeline.Handle(context.Background(), validRequest()).Status {
			case http.StatusOK:
				ok.Add(1)
			case http.StatusTooManyRequests:
				limited.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(ratelimit.StrictConfig.Limit), ok.Load())
	assert.Equal(t, int32(50-ratelimit.StrictConfig.Limit), limited.Load())
	assert.Equal(t, int32(ratelimit.StrictConfig.Limit), f.decoder.calls.Load())
}

func TestOutcomeErrorsWrapExactlyOneCategory(t *testing.T) {
	categories := []error{ErrRateLimited, ErrAccessDenied, ErrValidationFailed, ErrConfigurationMissing, ErrDispatchFailed}

	f := newFixture(t, ratelimit.StrictConfig)
	req := validRequest()
	req.APIKey = "nope"
	out := f.pipeline.Handle(context.Background(), req)

	matched := 0
	for _, category := range categories {
		if errors.Is(out.Err, category) {
			matched++
		}
	}
	assert.Equal(t, 1, matched, fmt.Sprintf("%v", out.Err))
}
