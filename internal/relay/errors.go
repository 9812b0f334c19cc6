package relay

import "errors"

// Failure taxonomy. Every non-success Outcome.Err wraps exactly one of these.
var (
	ErrRateLimited          = errors.New("rate limited")
	ErrAccessDenied         = errors.New("access denied")
	ErrValidationFailed     = errors.New("validation failed")
	ErrConfigurationMissing = errors.New("mail configuration missing")
	ErrDispatchFailed       = errors.New("dispatch failed")
)
