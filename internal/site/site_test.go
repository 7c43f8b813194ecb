package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	meta, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ShortName != "Picnic" || len(meta.Icons) != 4 {
		t.Fatalf("expected defaults, got %+v", meta)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	raw := "short_name: Piknik\ntheme_color: \"#00AAFF\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	meta, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ShortName != "Piknik" || meta.ThemeColor != "#00AAFF" {
		t.Fatalf("overrides not applied: %+v", meta)
	}
	if meta.Name != Default().Name {
		t.Fatalf("unset fields should keep defaults, got %q", meta.Name)
	}
}

func TestLoadJSONAndRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "site.json")
	if err := os.WriteFile(good, []byte(`{"name":"Picnic Test"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	meta, err := Load(good)
	if err != nil || meta.Name != "Picnic Test" {
		t.Fatalf("expected json override, got %+v err=%v", meta, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"name":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected decode error")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(empty); err == nil {
		t.Fatalf("expected validation error for empty name")
	}
}

func TestManifestShape(t *testing.T) {
	raw, err := Default().Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["start_url"] != "/" || doc["display"] != "standalone" {
		t.Fatalf("unexpected manifest %v", doc)
	}
	if _, ok := doc["Tagline"]; ok {
		t.Fatalf("tagline must not leak into the manifest")
	}
	icons, _ := doc["icons"].([]any)
	if len(icons) != 4 {
		t.Fatalf("expected 4 icons, got %d", len(icons))
	}
	first, _ := icons[0].(map[string]any)
	if _, ok := first["purpose"]; ok {
		t.Fatalf("empty purpose should be omitted")
	}
}
