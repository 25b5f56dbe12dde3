// Package logger builds the application's slog logger. Records go through
// zerolog to a file, since the terminal belongs to the UI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger writing JSON lines to w at level and above.
func New(w io.Writer, level slog.Level) *slog.Logger {
	zl := zerolog.New(w)
	handler := slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()
	return slog.New(handler)
}

// NewConsole returns a logger writing human-readable lines to w, for
// command-line tools that own their terminal.
func NewConsole(w io.Writer, level slog.Level) *slog.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"})
	handler := slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()
	return slog.New(handler)
}

// Open appends to the log file at path. The returned closer flushes and
// closes the file.
func Open(path, level string) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path comes from config
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return New(f, lvl), f, nil
}

// Fanout returns a logger sending every record to all of loggers.
func Fanout(loggers ...*slog.Logger) *slog.Logger {
	handlers := make([]slog.Handler, len(loggers))
	for i, l := range loggers {
		handlers[i] = l.Handler()
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
