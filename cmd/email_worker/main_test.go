package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-storefront/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-storefront/pkg/mailer/templates"
)

type ackRecorder struct {
	acked, nacked, requeued bool
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

type fakeSender struct {
	err  error
	jobs []mailer.EmailJob
}

func (f *fakeSender) SendJob(_ context.Context, job mailer.EmailJob) error {
	f.jobs = append(f.jobs, job)
	return f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func delivery(t *testing.T, ack *ackRecorder, body any) amqp.Delivery {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: b}
}

func TestHandle_SendsAndAcks(t *testing.T) {
	ack := &ackRecorder{}
	sender := &fakeSender{}
	job := mailer.EmailJob{
		To:       "buzon@bioworth.mx",
		ReplyTo:  "ana@example.mx",
		Template: mailtpl.ContactMessage,
		Data:     mailtpl.NewContactData(mailtpl.Branding{AppName: "BioWorth"}, "buzon@bioworth.mx", "Ana", "ana@example.mx", "hola"),
	}

	handle(context.Background(), quietLogger(), sender, delivery(t, ack, job))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	require.Len(t, sender.jobs, 1)
	assert.Equal(t, "ana@example.mx", sender.jobs[0].ReplyTo)
}

func TestHandle_FailedSendIsDropped(t *testing.T) {
	ack := &ackRecorder{}
	sender := &fakeSender{err: errors.New("mailgun down")}

	handle(context.Background(), quietLogger(), sender, delivery(t, ack, mailer.EmailJob{To: "x@y.z", Subject: "s", Text: "t"}))

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}

func TestHandle_BadJSON(t *testing.T) {
	ack := &ackRecorder{}
	sender := &fakeSender{}

	handle(context.Background(), quietLogger(), sender, amqp.Delivery{Acknowledger: ack, Body: []byte("{")})

	assert.True(t, ack.nacked)
	assert.Empty(t, sender.jobs)
}
