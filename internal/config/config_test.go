package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.nutriplan.app" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Log.File != filepath.Join(dir, "nutriplan.log") {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
	if !cfg.UI.AltScreen {
		t.Error("AltScreen should default to true")
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.json") {
		t.Errorf("SessionPath = %q", cfg.SessionPath())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "api:\n  base_url: http://localhost:4000/\n  timeout: 3s\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUTRIPLAN_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:4000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, env should win", cfg.Log.Level)
	}
}
