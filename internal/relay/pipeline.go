// Package relay runs a contact submission through its ordered stages:
// rate limit, access gate, validation and dispatch. The first stage that
// fails decides the response; later stages never run.
package relay

import (
	"context"
	"fmt"

	"github.com/osa911/contactrelay/internal/api/dto/v1/contact"
	"github.com/osa911/contactrelay/internal/mail"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

// Request is everything the pipeline needs from an inbound HTTP request.
type Request struct {
	ClientID string
	APIKey   string
	Origin   string
	Body     []byte
}

type Limiter interface {
	Allow(key string) ratelimit.Decision
}

type Gate interface {
	Check(apiKey, origin string) error
}

type Decoder interface {
	DecodeContact(body []byte) (*contact.ContactRequest, error)
}

type Dispatcher interface {
	Ready() error
	Dispatch(ctx context.Context, s mail.Submission) error
}

type Pipeline struct {
	limiter    Limiter
	gate       Gate
	decoder    Decoder
	dispatcher Dispatcher
}

func NewPipeline(limiter Limiter, gate Gate, decoder Decoder, dispatcher Dispatcher) *Pipeline {
	return &Pipeline{
		limiter:    limiter,
		gate:       gate,
		decoder:    decoder,
		dispatcher: dispatcher,
	}
}

// state carries values between stages of one request.
type state struct {
	req        Request
	decision   ratelimit.Decision
	submission *contact.ContactRequest
}

type stage func(ctx context.Context, st *state) *Outcome

// Handle runs the stages in order and returns exactly one outcome.
func (p *Pipeline) Handle(ctx context.Context, req Request) Outcome {
	st := &state{req: req}

	var out *Outcome
	for _, run := range []stage{p.checkRate, p.checkAccess, p.validate, p.dispatch} {
		if out = run(ctx, st); out != nil {
			break
		}
	}

	decision := st.decision
	out.RateLimit = &decision
	return *out
}

func (p *Pipeline) checkRate(_ context.Context, st *state) *Outcome {
	st.decision = p.limiter.Allow(st.req.ClientID)
	if !st.decision.Allowed {
		return rateLimited(fmt.Errorf("%w: client %s exceeded %d requests", ErrRateLimited, st.req.ClientID, st.decision.Limit))
	}
	return nil
}

func (p *Pipeline) checkAccess(_ context.Context, st *state) *Outcome {
	if err := p.gate.Check(st.req.APIKey, st.req.Origin); err != nil {
		return accessDenied(fmt.Errorf("%w: %w", ErrAccessDenied, err))
	}
	return nil
}

func (p *Pipeline) validate(_ context.Context, st *state) *Outcome {
	submission, err := p.decoder.DecodeContact(st.req.Body)
	if err != nil {
		return invalidRequest(fmt.Errorf("%w: %w", ErrValidationFailed, err))
	}
	st.submission = submission
	return nil
}

func (p *Pipeline) dispatch(ctx context.Context, st *state) *Outcome {
	if err := p.dispatcher.Ready(); err != nil {
		return internalError(fmt.Errorf("%w: %w", ErrConfigurationMissing, err))
	}

	err := p.dispatcher.Dispatch(ctx, mail.Submission{
		Name:    st.submission.Name,
		Email:   st.submission.Email,
		Subject: st.submission.Subject,
		Message: st.submission.Message,
	})
	if err != nil {
		return internalError(fmt.Errorf("%w: %w", ErrDispatchFailed, err))
	}
	return sent()
}
