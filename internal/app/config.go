package app

import "time"

// Config holds runtime configuration for the application. Precedence is
// flags > environment > config file; the helpers in config_env.go and
// config_file.go implement the lower layers.
type Config struct {
	// InputPaths are the PDF documents to process, in order.
	InputPaths []string
	// OutputPath is the XLSX workbook to write.
	OutputPath string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Chunking / extraction
	MaxTokens int
	Strategy  string

	// Behavior
	CacheDir string
	Timeout  time.Duration
	Verbose  bool
}
