package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesToOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	logger, err := New(Config{Level: "debug", Format: "json", OutputFile: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("quote computed")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"quote computed"`) {
		t.Fatalf("expected json entry, got %q", raw)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewDefaults(t *testing.T) {
	logger, err := New(Config{Format: "console", Level: "WARN"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled at warn level")
	}
}
