package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "taskflow", "warning")

	log.Info("hidden")
	log.Warnf("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARNING] [taskflow]") || !strings.Contains(out, "shown 1") {
		t.Errorf("expected warning line, got %q", out)
	}

	buf.Reset()
	log.SetLevel("debug")
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("expected debug after SetLevel, got %q", buf.String())
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "taskflow", "info")

	ctx := context.WithValue(context.Background(), constants.TraceIDKey, "trace-1")
	log.WithFields(ctx, Fields{"user_id": "u1", "action": "create_project_success"}).Info("project created")

	out := buf.String()
	if !strings.Contains(out, "[trace_id=trace-1 action=create_project_success user_id=u1]") {
		t.Errorf("expected sorted fields after trace id, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Errorf("expected caller location of the test, got %q", out)
	}
}

func TestLogger_CallerLocation(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, "", "info").Infof("plain %s", "message")

	if !strings.Contains(buf.String(), "[INFO] logger_test.go:") {
		t.Errorf("expected caller location of the test, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":    DEBUG,
		" WARN ":   WARNING,
		"error":    ERROR,
		"critical": CRITICAL,
		"":         INFO,
		"verbose":  INFO,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
