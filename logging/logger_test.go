package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	cases := map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
		LogLevel(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestNewSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(LogLevelWarn, "text", &buf)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message", "session_id", "s1")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("messages below warn should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "session_id=s1") {
		t.Fatalf("expected warn record with attrs, got: %s", out)
	}
	if !strings.Contains(out, "error message") {
		t.Fatalf("expected error record, got: %s", out)
	}
}

func TestNewSlogLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(LogLevelInfo, "json", &buf)

	logger.Info("hello", "mode", "agent")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"mode":"agent"`) {
		t.Fatalf("expected JSON record, got: %s", out)
	}
}

func TestNoOpLogger(t *testing.T) {
	// Must not panic; discards everything.
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d")
}
