package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warning", LogLevelWarn},
		{" warn ", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf, Component: "render"})
	logger.Debug("commit", "ops", 3)

	out := buf.String()
	if !strings.Contains(out, "msg=commit") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.Contains(out, "component=render") {
		t.Errorf("output %q should contain the component", out)
	}
	if !strings.Contains(out, "ops=3") {
		t.Errorf("output %q should contain the attribute", out)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record should be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("expected json record, got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Output: &bytes.Buffer{}})
	if Enabled(logger, LogLevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !Enabled(logger, LogLevelError) {
		t.Error("error should be enabled at info level")
	}
	if Enabled(NoOpLogger{}, LogLevelError) {
		t.Error("NoOpLogger should never be enabled")
	}
}
