// Package mail turns contact submissions into email and hands them to a provider.
package mail

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/contactrelay/internal/logging"
)

const tracerName = "github.com/osa911/contactrelay/internal/mail"

// Transport delivers one rendered message. Implementations make a single attempt.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher builds messages from submissions and sends them through a Transport.
type Dispatcher struct {
	config    *Config
	transport Transport
	logger    *logging.Logger
	tracer    trace.Tracer
}

func NewDispatcher(config *Config, transport Transport, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Dispatcher{
		config:    config,
		transport: transport,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// NewTransport picks the transport for config.Provider.
func NewTransport(config *Config, logger *logging.Logger) (Transport, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderSMTP:
		return NewSMTPTransport(config), nil
	case ProviderResend:
		return NewResendTransport(config.ResendAPIKey), nil
	case ProviderPostmark:
		return NewPostmarkTransport(config.PostmarkServerToken, config.PostmarkAccountToken), nil
	case ProviderLog:
		return NewLogTransport(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, config.Provider)
	}
}

// Ready reports whether identity and credential are configured.
func (d *Dispatcher) Ready() error {
	return d.config.Ready()
}

// Provider names the transport in use.
func (d *Dispatcher) Provider() string {
	return d.transport.Name()
}

// Dispatch sends one submission with a single attempt bounded by the send timeout.
// Errors wrap ErrNotConfigured or ErrSendFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, s Submission) error {
	if err := d.Ready(); err != nil {
		return err
	}

	msg := BuildMessage(d.config, s)

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	ctx, span := d.tracer.Start(ctx, "mail.dispatch", trace.WithAttributes(
		attribute.String("mail.provider", d.transport.Name()),
		attribute.Int("mail.html_bytes", len(msg.HTML)),
	))
	defer span.End()

	if err := d.transport.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("%w: %s: %v", ErrSendFailed, d.transport.Name(), err)
	}

	d.logger.Debug("Mail dispatched via %s to %s", d.transport.Name(), msg.To)
	return nil
}
