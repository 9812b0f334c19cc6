package mail

import (
	"fmt"
	"strings"
	"time"
)

// Providers
const (
	ProviderSMTP     = "smtp"
	ProviderResend   = "resend"
	ProviderPostmark = "postmark"
	ProviderLog      = "log"
)

// Config holds the outbound mail settings.
type Config struct {
	Provider string `env:"MAIL_PROVIDER" envDefault:"smtp"`

	// Account identity and credential of the sending mailbox
	User     string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASS"`

	From       string `env:"MAIL_FROM"`
	To         string `env:"MAIL_TO"`
	FromName   string `env:"MAIL_FROM_NAME" envDefault:"Portfolio Contact"`
	SubjectTag string `env:"MAIL_SUBJECT_TAG" envDefault:"[Portfolio Contact]"`
	EscapeHTML bool   `env:"MAIL_ESCAPE_HTML" envDefault:"false"`

	// SMTP relay
	SMTPHost   string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort   int           `env:"SMTP_PORT" envDefault:"587"`
	RequireTLS bool          `env:"SMTP_REQUIRE_TLS" envDefault:"false"`
	Timeout    time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	// Alternative providers
	ResendAPIKey         string `env:"RESEND_API_KEY"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}

// Validate checks static settings. Missing credentials are not an error here;
// see Ready.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderSMTP, ProviderResend, ProviderPostmark, ProviderLog:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("%w: SMTP_PORT out of range: %d", ErrInvalidConfig, c.SMTPPort)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: SMTP_TIMEOUT must be positive", ErrInvalidConfig)
	}
	return nil
}

// Ready reports whether a message can be dispatched with this config.
func (c *Config) Ready() error {
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("%w: EMAIL_USER is not set", ErrNotConfigured)
	}

	switch strings.ToLower(c.Provider) {
	case ProviderSMTP:
		if c.Password == "" {
			return fmt.Errorf("%w: EMAIL_PASS is not set", ErrNotConfigured)
		}
	case ProviderResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY is not set", ErrNotConfigured)
		}
	case ProviderPostmark:
		if c.PostmarkServerToken == "" {
			return fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is not set", ErrNotConfigured)
		}
	case ProviderLog:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, c.Provider)
	}
	return nil
}

// FromAddress is MAIL_FROM, or the account identity when unset.
func (c *Config) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// Recipient is MAIL_TO, or the account identity when unset.
func (c *Config) Recipient() string {
	if c.To != "" {
		return c.To
	}
	return c.User
}

// SMTPAddr returns host:port of the relay.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPHost, c.SMTPPort)
}
