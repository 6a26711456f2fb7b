package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: gemini
  api_key: secret
  model: gemini-2.0-flash
  timeout: 45s
concurrency:
  qps: 2
  rpm: 30
engine:
  parallel_facets: true
store:
  driver: postgres
  dsn: postgres://localhost/cinemind
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.APIKey != "secret" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	if !cfg.Engine.ParallelFacets {
		t.Error("ParallelFacets = false")
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("Store.Driver = %q", cfg.Store.Driver)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level default = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  model: gpt-4o-mini\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.APIKey != "from-env" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Provider != "openai" || cfg.Store.Driver != "memory" {
		t.Errorf("defaults = %+v / %+v", cfg.LLM, cfg.Store)
	}
	if cfg.Concurrency.RPM != 60 || cfg.Concurrency.QPS != 1 {
		t.Errorf("Concurrency = %+v", cfg.Concurrency)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error")
	}
}
