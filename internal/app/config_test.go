package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvToConfig_FillsUnsetOnly(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://localhost:8081/v1")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("MAX_TOKENS", "5000")
	t.Setenv("EXTRACT_STRATEGY", "ocr")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("VERBOSE", "true")

	cfg := Config{LLMModel: "flag-model"}
	ApplyEnvToConfig(&cfg)

	if cfg.LLMModel != "flag-model" {
		t.Fatalf("explicit value must win over env, got %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://localhost:8081/v1" || cfg.LLMAPIKey != "env-key" {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if cfg.MaxTokens != 5000 || cfg.Strategy != "ocr" || cfg.Timeout != 30*time.Second || !cfg.Verbose {
		t.Fatalf("env values not applied: %+v", cfg)
	}
}

func TestApplyEnvToConfig_ProviderKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "ds-key")
	cfg := Config{}
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "ds-key" {
		t.Fatalf("expected DEEPSEEK_API_KEY fallback, got %q", cfg.LLMAPIKey)
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
inputs:
  - invoices_example.pdf
output: extracted_invoice_data.xlsx
llm:
  base: http://localhost:8081/v1
  model: deepseek-chat
  key: secret
  timeoutSeconds: 45
extract:
  strategy: embedded
  maxTokens: 100000
cache:
  dir: .invoice-cache
verbose: true
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	if len(cfg.InputPaths) != 1 || cfg.InputPaths[0] != "invoices_example.pdf" {
		t.Fatalf("inputs not applied: %+v", cfg)
	}
	if cfg.LLMModel != "deepseek-chat" || cfg.Timeout != 45*time.Second {
		t.Fatalf("llm section not applied: %+v", cfg)
	}
	if cfg.MaxTokens != 100000 || cfg.Strategy != "embedded" || cfg.CacheDir != ".invoice-cache" || !cfg.Verbose {
		t.Fatalf("config not applied: %+v", cfg)
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	fc := FileConfig{Output: "file.xlsx"}
	fc.LLM.Model = "file-model"
	cfg := Config{OutputPath: "flag.xlsx"}
	ApplyFileConfig(&cfg, fc)
	if cfg.OutputPath != "flag.xlsx" {
		t.Fatalf("flag value must win: %q", cfg.OutputPath)
	}
	if cfg.LLMModel != "file-model" {
		t.Fatalf("unset field should come from file: %q", cfg.LLMModel)
	}
}
