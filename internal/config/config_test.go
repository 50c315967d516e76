package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if len(cfg.Analysis.Extensions) == 0 {
		t.Error("default extensions empty")
	}
	if cfg.Output.ArtifactName != "cbsf.json" {
		t.Errorf("artifact name = %q", cfg.Output.ArtifactName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Version != DefaultConfig().Version {
		t.Error("missing config file should yield defaults")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Output.Dir = "results"
	cfg.Analysis.Workers = 3
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, ".eris", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Output.Dir != "results" {
		t.Errorf("output dir = %q, want results", got.Output.Dir)
	}
	if got.Analysis.Workers != 3 {
		t.Errorf("workers = %d, want 3", got.Analysis.Workers)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".eris")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	partial := `{"version": 1, "output": {"dir": "custom"}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output.Dir != "custom" {
		t.Errorf("output dir = %q, want custom", cfg.Output.Dir)
	}
	if len(cfg.Analysis.Extensions) == 0 {
		t.Error("unset extensions should fall back to defaults")
	}
	if cfg.Output.ArtifactName != "cbsf.json" {
		t.Errorf("artifact name = %q, want default", cfg.Output.ArtifactName)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 2
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported version accepted")
	}

	cfg = DefaultConfig()
	cfg.Analysis.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative workers accepted")
	}
}
