package mail

import (
	"bytes"
	"fmt"
	"io"
	"time"

	gomail "github.com/emersion/go-message/mail"

	"github.com/osa911/contactrelay/internal/api/sanitization"
)

// Submission is a validated contact form entry.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Message is a fully addressed outbound email.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
}

const textBody = "Name: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s"

const htmlBody = `
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>
`

// BuildMessage addresses a submission to the configured recipient.
// The HTML body only converts newlines to <br> unless EscapeHTML is set.
func BuildMessage(cfg *Config, s Submission) Message {
	subject := s.Subject
	if cfg.SubjectTag != "" {
		subject = cfg.SubjectTag + " " + subject
	}

	return Message{
		FromName:    cfg.FromName,
		FromAddress: cfg.FromAddress(),
		To:          cfg.Recipient(),
		ReplyTo:     s.Email,
		Subject:     subject,
		Text:        fmt.Sprintf(textBody, s.Name, s.Email, s.Subject, s.Message),
		HTML:        renderHTML(s, cfg.EscapeHTML),
	}
}

func renderHTML(s Submission, escape bool) string {
	name, email, subject, message := s.Name, s.Email, s.Subject, s.Message
	if escape {
		name = sanitization.EscapeHTML(name)
		email = sanitization.EscapeHTML(email)
		subject = sanitization.EscapeHTML(subject)
		message = sanitization.EscapeHTML(message)
	}
	message = sanitization.LineBreaksToHTML(message)
	return fmt.Sprintf(htmlBody, name, email, subject, message)
}

// From renders the From header value, e.g. "Portfolio Contact" <me@example.com>.
func (m Message) From() string {
	addr := gomail.Address{Name: headerValue(m.FromName), Address: headerValue(m.FromAddress)}
	return addr.String()
}

// WriteTo renders the message as multipart/alternative MIME.
func (m Message) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	var h gomail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*gomail.Address{{Name: headerValue(m.FromName), Address: headerValue(m.FromAddress)}})
	h.SetAddressList("To", []*gomail.Address{{Address: headerValue(m.To)}})
	if m.ReplyTo != "" {
		h.SetAddressList("Reply-To", []*gomail.Address{{Address: headerValue(m.ReplyTo)}})
	}
	h.SetSubject(headerValue(m.Subject))
	if err := h.GenerateMessageID(); err != nil {
		return 0, fmt.Errorf("failed to generate message id: %w", err)
	}

	mw, err := gomail.CreateWriter(&buf, h)
	if err != nil {
		return 0, fmt.Errorf("failed to create message writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return 0, fmt.Errorf("failed to create inline writer: %w", err)
	}
	if err := writePart(tw, "text/plain", m.Text); err != nil {
		return 0, err
	}
	if err := writePart(tw, "text/html", m.HTML); err != nil {
		return 0, err
	}
	if err := tw.Close(); err != nil {
		return 0, fmt.Errorf("failed to close inline writer: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.WriteTo(w)
}

// Bytes renders the message.
func (m Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(tw *gomail.InlineWriter, contentType, body string) error {
	var ph gomail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := tw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close %s part: %w", contentType, err)
	}
	return nil
}

// headerValue strips line breaks so submitted values cannot add header lines.
func headerValue(v string) string {
	return sanitization.HeaderValue(v)
}
