package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig = errors.New("ratelimit: invalid config")
)

// Config defines one fixed window: at most Limit hits per Window per key.
type Config struct {
	Window time.Duration
	Limit  int
}

// Deployment presets.
var (
	PermissiveConfig = Config{Window: time.Minute, Limit: 50}
	StrictConfig     = Config{Window: 15 * time.Minute, Limit: 5}
)

func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive", ErrInvalidConfig)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// Policy renders the config in RateLimit-Policy header form, e.g. "5;w=900".
func (c Config) Policy() string {
	return fmt.Sprintf("%d;w=%d", c.Limit, int(c.Window/time.Second))
}

// Decision is the outcome of one hit against a key's window.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long until the window resets. Zero when allowed.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	wait := d.ResetAt.Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// ResetSeconds returns the whole seconds until the window resets, rounded up.
func (d Decision) ResetSeconds(now time.Time) int {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}
