package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/ratelimit"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "NODE_ENV", "PORT", "API_KEY", "ALLOWED_ORIGINS", "ALLOWED_ORIGIN",
		"RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "EMAIL_USER", "EMAIL_PASS", "MAIL_TO",
		"MAIL_PROVIDER", "SMTP_PORT", "LOG_LEVEL", "LOG_FILE",
		"GLOBAL_RATE_LIMIT_RPS", "GLOBAL_RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, int64(102400), cfg.MaxBodyBytes)
	assert.Equal(t, ratelimit.StrictConfig, cfg.RateLimit())
	assert.Zero(t, cfg.GlobalRateLimitRPS, "the shared ceiling is opt-in")
	assert.Zero(t, cfg.GlobalRateLimitBurst)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, 10*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "Portfolio Contact", cfg.Mail.FromName)
	assert.Equal(t, "[Portfolio Contact]", cfg.Mail.SubjectTag)
	assert.False(t, cfg.MailConfigured())
	assert.NoError(t, cfg.Validate())
}

func TestLoadNodeEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "development")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "permissive", cfg.Mode())
	assert.Equal(t, ratelimit.PermissiveConfig, cfg.RateLimit())
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "API_KEY=from-file\nEMAIL_USER=me@example.com\nEMAIL_PASS=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, "me@example.com", cfg.Mail.User)
	assert.True(t, cfg.MailConfigured())
}

func TestRateLimitOverrides(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, RateLimitWindow: time.Minute, RateLimitMax: 2}
	assert.Equal(t, ratelimit.Config{Window: time.Minute, Limit: 2}, cfg.RateLimit())

	cfg = &Config{Environment: EnvDevelopment, RateLimitMax: 7}
	assert.Equal(t, ratelimit.Config{Window: time.Minute, Limit: 7}, cfg.RateLimit())
}

func TestOrigins(t *testing.T) {
	cfg := &Config{
		AllowedOrigins: []string{"https://a.example", " ", "https://b.example", "https://a.example"},
		AllowedOrigin:  "https://c.example",
	}
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, cfg.Origins())

	assert.Empty(t, (&Config{AllowedOrigin: "  "}).Origins())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Port: "3000", MaxBodyBytes: 1024, Environment: EnvProduction}
		cfg.Mail.Provider = "smtp"
		cfg.Mail.SMTPPort = 587
		cfg.Mail.Timeout = time.Second
		cfg.Log.Level = "info"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"zero body cap", func(c *Config) { c.MaxBodyBytes = 0 }, true},
		{"negative max", func(c *Config) { c.RateLimitMax = -1 }, true},
		{"negative window", func(c *Config) { c.RateLimitWindow = -time.Second }, true},
		{"negative global rps", func(c *Config) { c.GlobalRateLimitRPS = -1 }, true},
		{"unknown provider", func(c *Config) { c.Mail.Provider = "pigeon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := &Config{}
	cfg.Mail.Provider = "smtp"
	assert.Len(t, cfg.Warnings(), 3)

	cfg.APIKey = "k"
	cfg.AllowedOrigin = "https://a.example"
	cfg.Mail.User = "me@example.com"
	cfg.Mail.Password = "p"
	assert.Empty(t, cfg.Warnings())
}

func TestWarningsTrailingSlashOrigin(t *testing.T) {
	cfg := &Config{APIKey: "k", AllowedOrigins: []string{"https://a.example", "https://b.example/"}}
	cfg.Mail.User = "me@example.com"
	cfg.Mail.Password = "p"

	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `"https://b.example/"`)
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIKey: "key", AllowedOrigins: []string{"https://a.example"}}
	cfg.Mail.Password = "pass"
	cfg.Mail.User = "me@example.com"

	red := cfg.Redacted()
	assert.Equal(t, "********", red.APIKey)
	assert.Equal(t, "********", red.Mail.Password)
	assert.Equal(t, "", red.Mail.ResendAPIKey)
	assert.Equal(t, "me@example.com", red.Mail.User)
	assert.Equal(t, "key", cfg.APIKey)

	red.AllowedOrigins[0] = "changed"
	assert.Equal(t, "https://a.example", cfg.AllowedOrigins[0])
}
