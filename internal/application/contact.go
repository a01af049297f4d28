package application

import (
	"context"

	"github.com/oksasatya/go-ddd-storefront/internal/domain/service"
)

// SubmitContact hands the message to the notifier. The session shows
// Sending while the call runs and Sent or Failed afterwards. Nothing else
// about the session changes.
func (s *Session) SubmitContact(ctx context.Context, msg service.ContactMessage) (service.DeliveryStatus, error) {
	if err := s.lock(); err != nil {
		return "", err
	}
	defer s.mu.Unlock()

	s.contact = service.StatusSending
	c, cancel := s.owner.withTimeout(ctx)
	err := s.owner.Notifier.Submit(c, msg)
	cancel()
	if err != nil {
		s.contact = service.StatusFailed
		metricContacts.Add(string(service.StatusFailed), 1)
		s.owner.Logger.WithError(err).WithField("sid", s.ID).Warn("contact message not delivered")
		return s.contact, err
	}
	s.contact = service.StatusSent
	metricContacts.Add(string(service.StatusSent), 1)
	return s.contact, nil
}

// ContactStatus is the status of the last contact submission, empty if none.
func (s *Session) ContactStatus() service.DeliveryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}
