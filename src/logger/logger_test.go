package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"easykaiko/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput(&buf, models.MLoggingConfig{Level: "info"}, "relay")

	l.Debug("hidden %d", 1)
	l.WithField("stream", "btc-ohlcv").Info("%s : subscribed", "Relay")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Relay : subscribed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "relay", entry["app"])
	assert.Equal(t, "btc-ohlcv", entry["stream"])
}

func TestLogger_CriticalMarker(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput(&buf, models.MLoggingConfig{Level: "debug", Format: "text"}, "relay")

	l.Critical("boom: %v", "disk full")

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "critical=true")
	assert.Contains(t, out, "boom: disk full")
}

func TestLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput(&buf, models.MLoggingConfig{Level: "loud"}, "relay")

	l.Debug("nope")
	l.Info("yes")

	assert.NotContains(t, buf.String(), "nope")
	assert.Contains(t, buf.String(), "yes")
}
