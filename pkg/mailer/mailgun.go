package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	Timeout time.Duration
	// BaseURL overrides the API base, e.g. mg.APIBaseEU.
	BaseURL string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Timeout: 10 * time.Second}
}

// Send sends an email via Mailgun. html and replyTo are optional.
func (m *Mailgun) Send(ctx context.Context, to, replyTo, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	if m.BaseURL != "" {
		client.SetAPIBase(m.BaseURL)
	}
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if replyTo != "" {
		msg.SetReplyTo(replyTo)
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// SendJob renders and sends a queued job.
func (m *Mailgun) SendJob(ctx context.Context, job EmailJob) error {
	subject, text, html, err := job.Render()
	if err != nil {
		return err
	}
	return m.Send(ctx, job.To, job.ReplyTo, subject, text, html)
}
