package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("unexpected http_addr %q", cfg.HTTPAddr)
	}
	if cfg.LoginDelay != time.Second {
		t.Fatalf("unexpected login delay %v", cfg.LoginDelay)
	}
	if cfg.ToastDismiss != 2500*time.Millisecond {
		t.Fatalf("unexpected toast dismiss %v", cfg.ToastDismiss)
	}
	if cfg.APIRevalidate != time.Minute {
		t.Fatalf("unexpected api revalidate %v", cfg.APIRevalidate)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("LOGIN_DELAY_MS", "0")
	t.Setenv("STORAGE_TYPE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LoginDelay != 0 {
		t.Fatalf("expected zero login delay, got %v", cfg.LoginDelay)
	}
	if cfg.StorageType != "memory" {
		t.Fatalf("expected memory storage, got %q", cfg.StorageType)
	}
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	t.Setenv("SESSION_TTL_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero session ttl")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picnic.yaml")
	content := "log_level: debug\nmock_username: tester\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.MockUsername != "tester" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
}

func TestWatchWithoutFileIsNoop(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stop := cfg.Watch(func(*Config) { t.Fatalf("unexpected reload") }, nil)
	stop()
}
