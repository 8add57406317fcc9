// Package logging provides structured logging for ballpit. It wraps the
// standard slog package so every entry carries the session it belongs to.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the environment variable consulted when no level is given.
const LevelEnv = "BALLPIT_LOG_LEVEL"

// Logger wraps slog.Logger with context-aware helpers.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError)
}

// Open creates a logger for the given file path and level name. An empty
// path discards output, "-" writes to stderr. An empty level falls back to
// BALLPIT_LOG_LEVEL, then INFO. The returned closer must be called.
func Open(path, level string) (*Logger, io.Closer, error) {
	if level == "" {
		level = os.Getenv(LevelEnv)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	switch path {
	case "":
		return New(io.Discard, lvl), nopCloser{}, nil
	case "-":
		return New(os.Stderr, lvl), nopCloser{}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, WrapError(err, "open log file %s", path)
	}
	return New(f, lvl), f, nil
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to slog levels.
// The empty string is INFO.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l *Logger) logWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := Session(ctx); id != "" {
		args = append(args, "session", id)
	}
	l.Log(ctx, level, msg, args...)
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelDebug, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelInfo, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.logWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg with err attached under the "error" key.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logWithContext(ctx, slog.LevelError, msg, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type sessionKey struct{}

// WithSession tags ctx with a session id, generating one when id is empty.
func WithSession(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewSessionID()
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// Session returns the session id carried by ctx, or "".
func Session(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok {
		return id
	}
	return ""
}

func NewSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WrapError adds context to err, formatting args into the message.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return fmt.Errorf("%s: %w", format, err)
}
