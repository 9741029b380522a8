package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/vrkit/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewWriter(ports.LevelWarn, &out, &errOut)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "warn message") {
		t.Error("expected warn message on stderr")
	}
	if !strings.Contains(errOut.String(), "error message") {
		t.Error("expected error message on stderr")
	}
}

func TestConsoleLogger_FormatArgs(t *testing.T) {
	var out bytes.Buffer
	log := NewWriter(ports.LevelDebug, &out, &out)

	log.Info("Frames: %d, gaps: %d, strategy: %s", 10, 2, "drop")

	if got := strings.TrimSpace(out.String()); got != "Frames: 10, gaps: 2, strategy: drop" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	log := NewWriter(ports.LevelDebug, &out, &out).WithComponent("repair")

	log.Debug("hello")

	if got := strings.TrimSpace(out.String()); got != "[repair] hello" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var out bytes.Buffer
	log := NewWriter(ports.LevelQuiet, &out, &out)

	log.Error("should not appear")

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ports.LogLevel
	}{
		{"debug", ports.LevelDebug},
		{"info", ports.LevelInfo},
		{"warn", ports.LevelWarn},
		{"error", ports.LevelError},
		{"quiet", ports.LevelQuiet},
		{"verbose", ports.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ports.ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
