package mail

import "errors"

var (
	ErrInvalidConfig = errors.New("mail: invalid config")
	ErrNotConfigured = errors.New("mail: not configured")
	ErrSendFailed    = errors.New("mail: send failed")
	ErrTLSRequired   = errors.New("mail: relay does not offer STARTTLS")
)
