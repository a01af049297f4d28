package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContactMessage(t *testing.T) {
	data := NewContactData(
		Branding{AppName: "BioWorth", CompanyName: "BioWorth MX"},
		"buzon@bioworth.mx", "Ana", "ana@example.mx", "Hola\n¿Tienen envíos a Puebla? <b>",
		WithTime(time.Date(2025, 5, 2, 10, 30, 0, 0, time.UTC)),
		WithIP(" 203.0.113.9 "), WithUserAgent("curl/8.5"),
	)

	subject, text, html, err := Render(ContactMessage, data)
	require.NoError(t, err)

	assert.Equal(t, "[BioWorth] Nuevo mensaje de Ana", subject)
	assert.Contains(t, text, "Correo: ana@example.mx")
	assert.Contains(t, text, "02 May 2025, 10:30")
	assert.Contains(t, text, "BioWorth MX")
	assert.Contains(t, text, "Origen: 203.0.113.9 (curl/8.5)")
	assert.Contains(t, html, "Hola<br>")
	assert.Contains(t, html, "&lt;b&gt;", "message must be escaped in html")
}

func TestRenderDefaultsAppName(t *testing.T) {
	data := NewContactData(Branding{}, "buzon@bioworth.mx", "Luis", "luis@example.mx", "hola")

	subject, _, _, err := Render(ContactMessage, data)
	require.NoError(t, err)
	assert.Equal(t, "[BioWorth] Nuevo mensaje de Luis", subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", map[string]any{})
	assert.Error(t, err)
}
