package mailer

import (
	"errors"

	mailtpl "github.com/oksasatya/go-ddd-storefront/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	ReplyTo  string         `json:"reply_to,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "contact_message"
	Data     map[string]any `json:"data,omitempty"`
}

// ErrEmptyJob is returned for a job with neither template nor body.
var ErrEmptyJob = errors.New("email job has no template and no body")

// Render resolves the job's subject and bodies, rendering its template when set.
func (j EmailJob) Render() (subject, text, html string, err error) {
	if j.Template != "" {
		return mailtpl.Render(j.Template, j.Data)
	}
	if j.Subject == "" || (j.Text == "" && j.HTML == "") {
		return "", "", "", ErrEmptyJob
	}
	return j.Subject, j.Text, j.HTML, nil
}
