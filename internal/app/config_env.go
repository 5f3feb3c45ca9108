package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		// Accept the provider-specific names the upstream tooling used.
		for _, key := range []string{"LLM_API_KEY", "OPENAI_API_KEY", "DEEPSEEK_API_KEY"} {
			if v := os.Getenv(key); v != "" {
				cfg.LLMAPIKey = v
				break
			}
		}
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = os.Getenv("CACHE_DIR")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = os.Getenv("EXTRACT_STRATEGY")
	}

	if cfg.MaxTokens == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("MAX_TOKENS"))); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if cfg.Timeout == 0 {
		if d, err := time.ParseDuration(os.Getenv("LLM_TIMEOUT")); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}
