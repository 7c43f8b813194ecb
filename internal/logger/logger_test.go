package logger

import (
	"testing"

	"github.com/samvad-hq/picnic-web/internal/config"
)

func TestInitAppliesConfiguredLevel(t *testing.T) {
	log, err := Init(&config.Config{AppName: "picnic-web", Env: "test", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log == nil || S == nil {
		t.Fatalf("expected logger to be initialized")
	}
	if Level() != "debug" {
		t.Fatalf("expected debug level, got %s", Level())
	}

	SetLevel("warning")
	if Level() != "warn" {
		t.Fatalf("expected warn level, got %s", Level())
	}
	SetLevel("verbose")
	if Level() != "info" {
		t.Fatalf("unknown levels should fall back to info, got %s", Level())
	}
	log.InfoObj("logger test", "payload", map[string]any{"ok": true})
}

func TestNopLoggerIsSilent(t *testing.T) {
	var l Logger = NopLogger{}
	l.InfoObj("x", "k", nil)
	l.DebugObj("x", "k", nil)
	l.WarnObj("x", "k", nil)
	l.ErrorObj("x", "k", nil)
}
