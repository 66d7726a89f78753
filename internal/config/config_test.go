package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", fileName, err)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "" {
		t.Fatalf("expected no path, got %q", cfg.Path)
	}
	if !cfg.Lower.EmitPositions {
		t.Fatal("expected default EmitPositions=true")
	}
	if cfg.UI.Color != ColorAuto {
		t.Fatalf("expected default color auto, got %q", cfg.UI.Color)
	}
}

func TestLoadFromAncestorDirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[cache]
dir = ".hdlower-cache"

[lower]
emit_positions = false

[ui]
color = "always"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Root != root {
		t.Fatalf("got root %q, want %q", cfg.Root, root)
	}
	if cfg.Lower.EmitPositions {
		t.Fatal("expected emit_positions=false to override the default")
	}
	if cfg.UI.Color != ColorAlways {
		t.Fatalf("got color %q, want always", cfg.UI.Color)
	}
	want := filepath.Join(root, ".hdlower-cache")
	if got := cfg.CacheDir(); got != want {
		t.Fatalf("got cache dir %q, want %q", got, want)
	}
}

func TestLoadRejectsUnknownColorMode(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[ui]\ncolor = \"rainbow\"\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid color mode")
	}
}

func TestCacheDirEmptyWhenUnconfigured(t *testing.T) {
	c := Default()
	if got := c.CacheDir(); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestCacheDirAbsolutePassthrough(t *testing.T) {
	c := Default()
	c.Root = "/some/root"
	c.Cache.Dir = "/abs/cache"
	if got := c.CacheDir(); got != "/abs/cache" {
		t.Fatalf("got %q, want /abs/cache", got)
	}
}
