package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally onto the flag namespace.
type FileConfig struct {
	Inputs []string `yaml:"inputs" json:"inputs"`
	Output string   `yaml:"output" json:"output"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
		// TimeoutSeconds bounds each completion call; 0 keeps the flag default.
		TimeoutSeconds int `yaml:"timeoutSeconds" json:"timeoutSeconds"`
	} `yaml:"llm" json:"llm"`

	Extract struct {
		Strategy  string `yaml:"strategy" json:"strategy"`
		MaxTokens int    `yaml:"maxTokens" json:"maxTokens"`
	} `yaml:"extract" json:"extract"`

	Cache struct {
		Dir string `yaml:"dir" json:"dir"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills unset cfg fields from fc. Values already present in
// cfg (from flags) win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if len(cfg.InputPaths) == 0 {
		cfg.InputPaths = fc.Inputs
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.Timeout == 0 && fc.LLM.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(fc.LLM.TimeoutSeconds) * time.Second
	}
	if cfg.Strategy == "" {
		cfg.Strategy = fc.Extract.Strategy
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = fc.Extract.MaxTokens
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
}
