// Package notify delivers contact form messages to the store inbox.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/apperr"
	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
	"github.com/oksasatya/go-ddd-storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-storefront/pkg/mailer/templates"
)

// MailSender is satisfied by *mailer.Mailgun.
type MailSender interface {
	Send(ctx context.Context, to, replyTo, subject, text, html string) error
}

// JobPublisher is satisfied by *helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Envelope addresses a contact message.
type Envelope struct {
	Inbox    string
	Branding mailtpl.Branding
}

func (e Envelope) job(msg service.ContactMessage, at time.Time) mailer.EmailJob {
	return mailer.EmailJob{
		To:       e.Inbox,
		ReplyTo:  msg.Email,
		Template: mailtpl.ContactMessage,
		Data: mailtpl.NewContactData(e.Branding, e.Inbox, msg.Name, msg.Email, msg.Message,
			mailtpl.WithTime(at), mailtpl.WithIP(msg.ClientIP), mailtpl.WithUserAgent(msg.UserAgent)),
	}
}

// Direct renders the message and sends it through Mailgun in the caller's
// request.
type Direct struct {
	Sender   MailSender
	Envelope Envelope
	Now      func() time.Time
}

func (d *Direct) Submit(ctx context.Context, msg service.ContactMessage) error {
	job := d.Envelope.job(msg, now(d.Now))
	subject, text, html, err := job.Render()
	if err != nil {
		return apperr.Delivery(err)
	}
	if err := d.Sender.Send(ctx, job.To, job.ReplyTo, subject, text, html); err != nil {
		return apperr.Delivery(err)
	}
	return nil
}

// Queued hands the message to the email worker through RabbitMQ.
type Queued struct {
	Publisher JobPublisher
	Envelope  Envelope
	Now       func() time.Time
}

func (q *Queued) Submit(ctx context.Context, msg service.ContactMessage) error {
	if err := q.Publisher.PublishJSON(ctx, q.Envelope.job(msg, now(q.Now))); err != nil {
		return apperr.Delivery(err)
	}
	return nil
}

// Disabled accepts every message without sending it.
type Disabled struct {
	Logger *logrus.Logger
}

func (d *Disabled) Submit(_ context.Context, msg service.ContactMessage) error {
	if d.Logger != nil {
		d.Logger.WithField("from", msg.Email).Info("mail sending disabled; contact message dropped")
	}
	return nil
}

func now(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now()
	}
	return fn()
}

var (
	_ service.Notifier = (*Direct)(nil)
	_ service.Notifier = (*Queued)(nil)
	_ service.Notifier = (*Disabled)(nil)
)
