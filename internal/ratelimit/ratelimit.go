// Package ratelimit implements the per-client fixed-window request ceiling.
//
// Every hit increments the caller's counter, including hits that end up
// denied, so a client hammering the endpoint stays blocked until its window
// elapses. Counters live in a Store owned by whoever builds the limiter.
package ratelimit

import (
	"time"
)

// FixedWindow admits at most Config.Limit hits per key per Config.Window.
type FixedWindow struct {
	store  Store
	config Config
	now    func() time.Time
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(fw *FixedWindow) {
		if now != nil {
			fw.now = now
		}
	}
}

func New(store Store, config Config, opts ...Option) (*FixedWindow, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fw := &FixedWindow{
		store:  store,
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Allow records a hit for key and reports whether it fits in the window.
func (fw *FixedWindow) Allow(key string) Decision {
	now := fw.now()
	count, start := fw.store.Hit(key, now, fw.config.Window)

	remaining := fw.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= fw.config.Limit,
		Limit:     fw.config.Limit,
		Remaining: remaining,
		ResetAt:   start.Add(fw.config.Window),
	}
}
