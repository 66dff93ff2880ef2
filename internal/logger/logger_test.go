package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/koriwi/nutriplan-cli/internal/config"
)

func TestInitWritesToFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	if err := Init(config.LogConfig{File: path, Level: "info", Production: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("hidden")
	Info("meal consumed", zap.String("meal", "m1"))
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "meal consumed") || !strings.Contains(out, `"meal":"m1"`) {
		t.Errorf("log missing entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(config.LogConfig{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	if err == nil {
		t.Error("expected error for unknown level")
	}
}
