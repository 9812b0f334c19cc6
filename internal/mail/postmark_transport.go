package mail

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkTransport sends messages via Postmark's transactional API.
type PostmarkTransport struct {
	client *postmark.Client
}

func NewPostmarkTransport(serverToken, accountToken string) *PostmarkTransport {
	return &PostmarkTransport{
		client: postmark.NewClient(serverToken, accountToken),
	}
}

func (p *PostmarkTransport) Name() string {
	return ProviderPostmark
}

func (p *PostmarkTransport) Send(ctx context.Context, msg Message) error {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     msg.From(),
		To:       msg.To,
		ReplyTo:  headerValue(msg.ReplyTo),
		Subject:  headerValue(msg.Subject),
		Tag:      "contact",
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("postmark send failed: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
