package common

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewColorHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewColorHandler(&buf, nil)

	if handler.writer != &buf {
		t.Error("writer not set correctly")
	}
	if handler.masker == nil {
		t.Error("masker not initialized")
	}
	if handler.useColor {
		t.Error("colors must be off for a non-terminal writer")
	}
}

func TestColorHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name    string
		level   slog.Level
		opts    *slog.HandlerOptions
		enabled bool
	}{
		{"default level (info)", slog.LevelInfo, nil, true},
		{"debug level with info handler", slog.LevelDebug, nil, false},
		{"error level", slog.LevelError, nil, true},
		{"debug handler with debug level", slog.LevelDebug, &slog.HandlerOptions{Level: slog.LevelDebug}, true},
		{"warn handler with info level", slog.LevelInfo, &slog.HandlerOptions{Level: slog.LevelWarn}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewColorHandler(&buf, tt.opts)
			if got := h.Enabled(context.Background(), tt.level); got != tt.enabled {
				t.Fatalf("Enabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestColorHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	logger := slog.New(h.WithGroup("directory").WithAttrs([]slog.Attr{slog.String("endpoint", "/api/social-media")}))

	logger.Info("rows appended", "rows", 2, "status", "ok", "email", "ada@example.com", "took", time.Second)

	out := buf.String()
	for _, want := range []string{"[INFO ]", "[directory]", "rows appended", "endpoint=\"/api/social-media\"", "rows=2", "status=\"ok\"", "took=1s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "ada@example.com") {
		t.Errorf("email leaked: %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("unexpected ANSI codes: %q", out)
	}
}

func TestColorHandler_ColorsWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	h.SetColorEnabled(true)

	slog.New(h).Error("submit failed", "error", "network down")

	out := buf.String()
	if !strings.Contains(out, Red+"[ERROR]"+Reset) {
		t.Fatalf("expected red level marker, got %q", out)
	}
}

func TestColorHandler_WithAttrsDoesNotShareState(t *testing.T) {
	var buf bytes.Buffer
	base := NewColorHandler(&buf, nil)
	a := base.WithAttrs([]slog.Attr{slog.String("flow", "directory")})
	b := base.WithAttrs([]slog.Attr{slog.String("flow", "form")})

	slog.New(a).Info("x")
	slog.New(b).Info("y")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `flow="directory"`) || !strings.Contains(lines[1], `flow="form"`) {
		t.Fatalf("attrs leaked between handlers: %v", lines)
	}
	if strings.Count(lines[1], "flow=") != 1 {
		t.Fatalf("expected single flow attr: %s", lines[1])
	}
}
