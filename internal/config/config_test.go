package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != "5050" {
		t.Fatalf("unexpected default port %q", cfg.Server.Port)
	}
	if cfg.Database.Path != "./data/annotations.db" {
		t.Fatalf("unexpected default db path %q", cfg.Database.Path)
	}
	if cfg.Excel.Sheet != "dr_questions" {
		t.Fatalf("unexpected default sheet %q", cfg.Excel.Sheet)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := []byte("server:\n  port: \"9000\"\ndatabase:\n  path: /tmp/x.db\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/x.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	// Unset fields still get defaults.
	if cfg.Excel.Path != "./data/dr_questions.xlsx" {
		t.Fatalf("unexpected excel path %q", cfg.Excel.Path)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestAnnotationDBOverride(t *testing.T) {
	t.Setenv("ANNOTATION_DB", "/data/annotations.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.Path != "/data/annotations.db" {
		t.Fatalf("env override ignored, got %q", cfg.Database.Path)
	}
	if !DatabaseForced() {
		t.Fatal("expected DatabaseForced with ANNOTATION_DB set")
	}
}
