package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPTransport submits messages to a relay over one connection per message,
// upgrading with STARTTLS when the relay offers it.
type SMTPTransport struct {
	addr       string
	host       string
	user       string
	password   string
	requireTLS bool
	timeout    time.Duration
	tlsConfig  *tls.Config
}

func NewSMTPTransport(config *Config) *SMTPTransport {
	return &SMTPTransport{
		addr:       config.SMTPAddr(),
		host:       config.SMTPHost,
		user:       config.User,
		password:   config.Password,
		requireTLS: config.RequireTLS,
		timeout:    config.Timeout,
		tlsConfig:  &tls.Config{ServerName: config.SMTPHost, MinVersion: tls.VersionTLS12},
	}
}

func (t *SMTPTransport) Name() string {
	return ProviderSMTP
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	body, err := msg.Bytes()
	if err != nil {
		return err
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c, err := t.dial(ctx, deadline, nil)
	if err != nil {
		return err
	}

	// The client only upgrades while the session starts, so an advertised
	// STARTTLS means reconnecting with the upgrade.
	if ok, _ := c.Extension("STARTTLS"); ok {
		_ = c.Close()
		if c, err = t.dial(ctx, deadline, t.tlsConfig); err != nil {
			return err
		}
	} else if t.requireTLS {
		_ = c.Close()
		return ErrTLSRequired
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", t.user, t.password)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := c.SendMail(msg.FromAddress, []string{msg.To}, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if err := c.Quit(); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// dial opens a session, issuing STARTTLS first when tlsConfig is set.
func (t *SMTPTransport) dial(ctx context.Context, deadline time.Time, tlsConfig *tls.Config) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", t.addr, err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if tlsConfig == nil {
		return smtp.NewClient(conn), nil
	}

	c, err := smtp.NewClientStartTLS(conn, tlsConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("STARTTLS failed: %w", err)
	}
	return c, nil
}
