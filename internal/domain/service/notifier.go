package service

import "context"

// ContactMessage is the payload of the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`

	// Origin of the submission, stamped on the outgoing email when known.
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// DeliveryStatus is the status string shown to the user for a contact send.
type DeliveryStatus string

const (
	StatusSending DeliveryStatus = "Sending"
	StatusSent    DeliveryStatus = "Sent"
	StatusFailed  DeliveryStatus = "Failed"
)

// Notifier submits contact messages to an outbound delivery service. A
// failure affects nothing but the returned error.
type Notifier interface {
	Submit(ctx context.Context, msg ContactMessage) error
}
