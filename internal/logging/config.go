package logging

import (
	"fmt"
	"strings"
)

// Config holds logging-related configuration
type Config struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`     // debug, info, warn, error
	File       string `env:"LOG_FILE"`                        // Path to log file, stdout only when empty
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`   // Max size in MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`  // Number of backups to keep
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`      // Max age in days
	Requests   bool   `env:"LOG_REQUESTS" envDefault:"false"` // Log every HTTP request
}

// Validate checks if the configuration is valid
func (l *Config) Validate() error {
	if _, ok := levelRank[strings.ToLower(l.Level)]; !ok {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.File == "" {
		return nil
	}

	if l.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive")
	}

	if l.MaxBackups < 0 {
		return fmt.Errorf("max_backups must be non-negative")
	}

	if l.MaxAge < 0 {
		return fmt.Errorf("max_age must be non-negative")
	}

	return nil
}
