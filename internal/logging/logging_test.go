package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestSetup_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "info", Format: "text"}, &buf)

	logger.Debug("hidden")
	logger.Info("loaded books", "version", "kjv", "count", 66)
	logger.WithGroup("http").Warn("slow", "ms", 900)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "INF loaded books")
	assert.Contains(t, lines[0], " version=kjv")
	assert.Contains(t, lines[0], " count=66")
	assert.Contains(t, lines[0], " session=")
	assert.NotContains(t, lines[0], "\x1b[")

	assert.Contains(t, lines[1], "WRN slow")
	assert.Contains(t, lines[1], " http.ms=900")
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "debug", Format: "json"}, &buf)

	logger.Debug("request", "path", "/bibles")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "request", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "/bibles", rec["path"])

	_, err := uuid.Parse(rec["session"].(string))
	assert.NoError(t, err)
}

func TestSetup_SessionDiffersPerLogger(t *testing.T) {
	var a, b bytes.Buffer
	Setup(Config{Format: "json"}, &a).Info("x")
	Setup(Config{Format: "json"}, &b).Info("x")

	var ra, rb map[string]any
	require.NoError(t, json.Unmarshal(a.Bytes(), &ra))
	require.NoError(t, json.Unmarshal(b.Bytes(), &rb))
	assert.NotEqual(t, ra["session"], rb["session"])
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(t.Context(), slog.LevelError))
}
