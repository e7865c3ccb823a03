package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// secrets required by validation; set once per test via env.
func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("DOCFORGE_JWT_SECRET", "test-secret-key-that-is-long-enough!!")
	t.Setenv("DOCFORGE_MASTER_SECRET", "test-master-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Rate.WindowLimit != 30 {
		t.Errorf("window limit = %d", cfg.Rate.WindowLimit)
	}
	if cfg.Retention.DocumentTTL != 24*time.Hour {
		t.Errorf("document ttl = %v", cfg.Retention.DocumentTTL)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	setRequiredSecrets(t)

	path := filepath.Join(t.TempDir(), "docforge.yaml")
	yaml := `
server:
  port: "9090"
rate:
  window_limit: 5
converter:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Rate.WindowLimit != 5 {
		t.Errorf("window limit = %d", cfg.Rate.WindowLimit)
	}
	if cfg.Converter.Timeout != 5*time.Second {
		t.Errorf("converter timeout = %v", cfg.Converter.Timeout)
	}
	// Untouched values keep their defaults.
	if cfg.Cache.MaxSizeMB != 64 {
		t.Errorf("cache size = %d", cfg.Cache.MaxSizeMB)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("DOCFORGE_PORT", "7070")
	t.Setenv("DOCFORGE_RATE_WINDOW_LIMIT", "10")
	t.Setenv("DOCFORGE_DOCUMENT_TTL", "48h")

	path := filepath.Join(t.TempDir(), "docforge.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q, env should win", cfg.Server.Port)
	}
	if cfg.Rate.WindowLimit != 10 {
		t.Errorf("window limit = %d", cfg.Rate.WindowLimit)
	}
	if cfg.Retention.DocumentTTL != 48*time.Hour {
		t.Errorf("document ttl = %v", cfg.Retention.DocumentTTL)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("DOCFORGE_JWT_SECRET", "")
	t.Setenv("DOCFORGE_MASTER_SECRET", "")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected validation failure without secrets")
	}

	t.Setenv("DOCFORGE_JWT_SECRET", "too-short")
	t.Setenv("DOCFORGE_MASTER_SECRET", "m")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected validation failure with short jwt secret")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	setRequiredSecrets(t)

	path := filepath.Join(t.TempDir(), "docforge.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse failure")
	}
}
