package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendTransport sends messages via the Resend API.
type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(apiKey string) *ResendTransport {
	return &ResendTransport{
		client: resend.NewClient(apiKey),
	}
}

func (r *ResendTransport) Name() string {
	return ProviderResend
}

func (r *ResendTransport) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    msg.From(),
		To:      []string{msg.To},
		Subject: headerValue(msg.Subject),
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: headerValue(msg.ReplyTo),
	}

	if _, err := r.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
