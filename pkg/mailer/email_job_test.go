package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/go-ddd-storefront/pkg/mailer/templates"
)

func TestEmailJobRender(t *testing.T) {
	job := EmailJob{
		To:       "buzon@bioworth.mx",
		Template: mailtpl.ContactMessage,
		Data:     mailtpl.NewContactData(mailtpl.Branding{AppName: "BioWorth"}, "buzon@bioworth.mx", "Ana", "ana@example.mx", "hola"),
	}
	subject, text, html, err := job.Render()
	require.NoError(t, err)
	assert.Equal(t, "[BioWorth] Nuevo mensaje de Ana", subject)
	assert.Contains(t, text, "hola")
	assert.NotEmpty(t, html)

	raw := EmailJob{To: "x@y.mx", Subject: "s", Text: "t"}
	subject, text, _, err = raw.Render()
	require.NoError(t, err)
	assert.Equal(t, "s", subject)
	assert.Equal(t, "t", text)

	_, _, _, err = EmailJob{To: "x@y.mx"}.Render()
	assert.ErrorIs(t, err, ErrEmptyJob)
}
