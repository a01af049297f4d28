package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger("storefront", "production", "warn")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	LogError(l, "save failed", errors.New("boom"), logrus.Fields{"user_id": "u1"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "storefront", line["app"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "save failed", line["msg"])
}

func TestNewLogger_DevelopmentDefaults(t *testing.T) {
	l := NewLogger("storefront", "development", "")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}
