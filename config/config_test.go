package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	c := Load()

	assert.Equal(t, "memory", c.StoreBackend)
	assert.Equal(t, "local", c.AuthBackend)
	assert.Equal(t, 10*time.Second, c.RemoteCallTimeout)
	assert.NoError(t, c.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("REMOTE_CALL_TIMEOUT", "3s")
	t.Setenv("DB_MAX_CONNS", "oops")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.mx, ,https://b.mx")
	c := Load()

	assert.Equal(t, "postgres", c.StoreBackend)
	assert.Equal(t, 3*time.Second, c.RemoteCallTimeout)
	assert.EqualValues(t, 10, c.DBMaxConns)
	assert.Equal(t, []string{"https://a.mx", "https://b.mx"}, c.CORSOrigins())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{StoreBackend: "memory", AuthBackend: "local", MailDelivery: "queue", ContactInbox: "buzon@bioworth.mx", MailSendEnabled: true}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.StoreBackend = "sqlite"
	assert.Error(t, c.Validate())

	c = base()
	c.StoreBackend = "firestore"
	assert.Error(t, c.Validate())
	c.FirebaseProjectID = "bioworth"
	assert.NoError(t, c.Validate())

	c = base()
	c.AuthBackend = "firebase"
	c.FirebaseProjectID = "bioworth"
	assert.Error(t, c.Validate())

	c = base()
	c.ContactInbox = ""
	assert.Error(t, c.Validate())
	c.MailSendEnabled = false
	assert.NoError(t, c.Validate())

	c = base()
	c.MailDelivery = "pigeon"
	assert.Error(t, c.Validate())
}
