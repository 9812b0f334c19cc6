package mail

import (
	"context"

	"github.com/osa911/contactrelay/internal/logging"
)

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	logger *logging.Logger
}

func NewLogTransport(logger *logging.Logger) *LogTransport {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &LogTransport{logger: logger}
}

func (l *LogTransport) Name() string {
	return ProviderLog
}

func (l *LogTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.logger.Info("[MAIL] from=%s to=%s reply-to=%s subject=%q\n%s", msg.From(), msg.To, msg.ReplyTo, msg.Subject, msg.Text)
	return nil
}
