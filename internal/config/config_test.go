package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\nlog:\n  format: text\n")
	t.Setenv("ENVDECK_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090 from config file", cfg.Server.Port)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want text from config file", cfg.Log.Format)
	}
	// Untouched keys keep their defaults.
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")
	t.Setenv("ENVDECK_CONFIG", path)
	t.Setenv("ENVDECK_SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env value 7070 over file value", cfg.Server.Port)
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	t.Setenv("ENVDECK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a nonexistent explicit config file")
	}
}
