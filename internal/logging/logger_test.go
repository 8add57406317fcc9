package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerSession(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)

	ctx := WithSession(context.Background(), "abc123")
	l.Info(ctx, "tick", "n", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["session"] != "abc123" {
		t.Errorf("session = %v, want abc123", entry["session"])
	}
	if entry["msg"] != "tick" {
		t.Errorf("msg = %v, want tick", entry["msg"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	l.Error(context.Background(), "boom", errors.New("bad config"))
	if !strings.Contains(buf.String(), "bad config") {
		t.Errorf("error not attached: %q", buf.String())
	}
}

func TestWithSessionGenerates(t *testing.T) {
	id := Session(WithSession(context.Background(), ""))
	if len(id) != 16 {
		t.Errorf("expected a 16 char hex id, got %q", id)
	}
	if Session(context.Background()) != "" {
		t.Error("expected no session on a bare context")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ballpit.log")
	l, c, err := Open(path, "debug")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Debug(context.Background(), "hello")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, _, err := Open("", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("denied")
	err := WrapError(base, "open %s", "x.yaml")
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
	if err.Error() != "open x.yaml: denied" {
		t.Errorf("got %q", err.Error())
	}
	if WrapError(nil, "nothing") != nil {
		t.Error("nil should stay nil")
	}
}
