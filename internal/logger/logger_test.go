package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

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
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("media failed", "snap", "ana-1", "attempt", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "media failed", rec["message"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "ana-1", rec["snap"])
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reel.log")

	log, closer, err := Open(path, "debug")
	require.NoError(t, err)
	log.Debug("first")
	require.NoError(t, closer.Close())

	log, closer, err = Open(path, "debug")
	require.NoError(t, err)
	log.Warn("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestOpen_BadLevel(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

func TestNewConsole_WritesReadableLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewConsole(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("prune", "count", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "prune")
	assert.Contains(t, out, "count=3")
	assert.NotContains(t, out, "{")
}

func TestFanout(t *testing.T) {
	var jsonBuf, consoleBuf bytes.Buffer
	log := Fanout(New(&jsonBuf, slog.LevelDebug), NewConsole(&consoleBuf, slog.LevelWarn))

	log.Info("imported", "snaps", 4)

	assert.Contains(t, jsonBuf.String(), `"snaps":4`)
	assert.Empty(t, consoleBuf.String(), "console is warn and above")
}
