package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXPENSE_ASSISTANT_DATA", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PrimaryModel != DefaultPrimaryModel {
		t.Errorf("PrimaryModel = %q, want %q", cfg.PrimaryModel, DefaultPrimaryModel)
	}
	if cfg.LiteModel != DefaultLiteModel {
		t.Errorf("LiteModel = %q, want %q", cfg.LiteModel, DefaultLiteModel)
	}
	if cfg.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, DefaultTemperature)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_key: from-file\nprimary_model: gemini-custom\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("EXPENSE_ASSISTANT_DATA", filepath.Join(dir, "data.db"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, env must win over file", cfg.APIKey)
	}
	if cfg.PrimaryModel != "gemini-custom" {
		t.Errorf("PrimaryModel = %q, want file value", cfg.PrimaryModel)
	}
	// Fields the file omitted keep their defaults.
	if cfg.LiteModel != DefaultLiteModel {
		t.Errorf("LiteModel = %q, want default", cfg.LiteModel)
	}
	if cfg.DataPath != filepath.Join(dir, "data.db") {
		t.Errorf("DataPath = %q, env must win", cfg.DataPath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
