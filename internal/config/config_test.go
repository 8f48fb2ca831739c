package config

import (
	"os"
	"path/filepath"
	"testing"

	"ktmeta/internal/header"
	"ktmeta/internal/strtab"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}
	if cfg.BaselineVersion() != header.Baseline {
		t.Errorf("baseline = %s, want %s", cfg.Baseline, header.Baseline)
	}
	if cfg.MaxStrings != strtab.DefaultMaxStrings {
		t.Errorf("max_strings = %d", cfg.MaxStrings)
	}
	if cfg.Verbose || !cfg.Color {
		t.Errorf("verbose=%v color=%v", cfg.Verbose, cfg.Color)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := `
baseline: 1.8.0
max_strings: 500
verbose: true
color: false
`
	if err := os.WriteFile(filepath.Join(dir, "ktmeta.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.BaselineVersion(); got != (header.Version{Major: 1, Minor: 8, Patch: 0}) {
		t.Errorf("baseline = %s", got)
	}
	if cfg.MaxStrings != 500 || !cfg.Verbose || cfg.Color {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("KTMETA_MAX_STRINGS", "64")
	t.Setenv("KTMETA_BASELINE", "1.10")

	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxStrings != 64 {
		t.Errorf("max_strings = %d, want 64", cfg.MaxStrings)
	}
	if got := cfg.BaselineVersion(); got != (header.Version{Major: 1, Minor: 10, Patch: 0}) {
		t.Errorf("baseline = %s", got)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("max_strings: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxStrings != 10 {
		t.Errorf("max_strings = %d", cfg.MaxStrings)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad baseline":         "baseline: one.nine\n",
		"negative max_strings": "max_strings: -1\n",
	}
	for name, content := range tests {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "ktmeta.yaml"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load("", dir); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
