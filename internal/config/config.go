package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	envfile "github.com/osa911/contactrelay/internal/config/env"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mail"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

// Deployment modes
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV"`
	Port           string   `env:"PORT" envDefault:"3000"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"102400"`

	// Access Configuration
	APIKey         string   `env:"API_KEY"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AllowedOrigin  string   `env:"ALLOWED_ORIGIN"`

	// Rate Limit Configuration (zero means mode default)
	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW"`
	RateLimitMax         int           `env:"RATE_LIMIT_MAX"`
	GlobalRateLimitRPS   float64       `env:"GLOBAL_RATE_LIMIT_RPS" envDefault:"0"`
	GlobalRateLimitBurst int           `env:"GLOBAL_RATE_LIMIT_BURST" envDefault:"0"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"contactrelay"`

	Mail mail.Config
	Log  logging.Config
}

// Load loads the configuration from .env files and environment variables.
// dirs are searched for .env files in order; the working directory is used when empty.
func Load(dirs ...string) (*Config, error) {
	if _, err := envfile.LoadEnv(dirs...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = os.Getenv("NODE_ENV")
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvProduction
	}
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	return cfg, nil
}

// IsDevelopment reports whether the permissive deployment mode is selected.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// Mode names the rate limit preset in effect.
func (c *Config) Mode() string {
	if c.IsDevelopment() {
		return "permissive"
	}
	return "strict"
}

// RateLimit returns the per-client window for the current mode with overrides applied.
func (c *Config) RateLimit() ratelimit.Config {
	rl := ratelimit.StrictConfig
	if c.IsDevelopment() {
		rl = ratelimit.PermissiveConfig
	}
	if c.RateLimitWindow > 0 {
		rl.Window = c.RateLimitWindow
	}
	if c.RateLimitMax > 0 {
		rl.Limit = c.RateLimitMax
	}
	return rl
}

// Origins merges ALLOWED_ORIGINS and ALLOWED_ORIGIN, dropping blank and duplicate entries.
func (c *Config) Origins() []string {
	seen := make(map[string]struct{})
	var origins []string

	add := func(origin string) {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}

	for _, origin := range c.AllowedOrigins {
		add(origin)
	}
	add(c.AllowedOrigin)

	return origins
}

// MailConfigured reports whether the mail provider has identity and credential.
func (c *Config) MailConfigured() bool {
	return c.Mail.Ready() == nil
}

// Validate checks the configuration for values that cannot work at all.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	if c.RateLimitWindow < 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must not be negative")
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative")
	}
	if c.GlobalRateLimitRPS < 0 || c.GlobalRateLimitBurst < 0 {
		return fmt.Errorf("GLOBAL_RATE_LIMIT_RPS and GLOBAL_RATE_LIMIT_BURST must not be negative")
	}
	if err := c.RateLimit().Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

// Warnings lists settings that leave the relay unable to serve requests.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.APIKey == "" {
		warnings = append(warnings, "API_KEY is not set; every request will be denied")
	}
	if len(c.Origins()) == 0 {
		warnings = append(warnings, "no allowed origins configured; requests carrying an Origin or Referer will be denied")
	}
	for _, origin := range c.Origins() {
		if strings.HasSuffix(origin, "/") {
			warnings = append(warnings, fmt.Sprintf("allowed origin %q ends with '/'; browsers send Origin without it, so only Referer-based requests will match", origin))
		}
	}
	if err := c.Mail.Ready(); err != nil {
		warnings = append(warnings, err.Error())
	}
	return warnings
}

// Redacted returns a copy with secrets masked.
func (c Config) Redacted() Config {
	c.APIKey = mask(c.APIKey)
	c.Mail.Password = mask(c.Mail.Password)
	c.Mail.ResendAPIKey = mask(c.Mail.ResendAPIKey)
	c.Mail.PostmarkServerToken = mask(c.Mail.PostmarkServerToken)
	c.Mail.PostmarkAccountToken = mask(c.Mail.PostmarkAccountToken)
	c.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	c.TrustedProxies = append([]string(nil), c.TrustedProxies...)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
