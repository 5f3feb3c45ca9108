package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/magicjohnson/Invoice-extractor/internal/app"
	"github.com/magicjohnson/Invoice-extractor/internal/pipeline"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputList  string
		outputPath string
		configPath string
		llmBaseURL string
		llmModel   string
		llmKey     string
		llmTimeout time.Duration
		maxTokens  int
		strategy   string
		cacheDir   string
		verbose    bool
	)

	flag.StringVar(&inputList, "input", "", "Comma-separated PDF files to process (positional args also accepted)")
	flag.StringVar(&outputPath, "output", "extracted_invoices.xlsx", "Path to write the XLSX workbook")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key for the completion endpoint")
	flag.DurationVar(&llmTimeout, "llm.timeout", 60*time.Second, "Per-completion-call timeout")
	flag.IntVar(&maxTokens, "max.tokens", 0, "Approximate token budget per chunk (0 = default)")
	flag.StringVar(&strategy, "strategy", "", "Text extraction strategy: embedded, stream or ocr")
	flag.StringVar(&cacheDir, "cache.dir", "", "Directory for cached model responses (empty disables)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		InputPaths: splitInputs(inputList, flag.Args()),
		OutputPath: outputPath,
		LLMBaseURL: llmBaseURL,
		LLMModel:   llmModel,
		LLMAPIKey:  llmKey,
		MaxTokens:  maxTokens,
		Strategy:   strategy,
		CacheDir:   cacheDir,
		Timeout:    llmTimeout,
		Verbose:    verbose,
	}
	// Precedence: flags > env > config file.
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("cannot load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Unreadable input and text-free documents exit 2; everything else 1.
		if errors.Is(err, pipeline.ErrNoText) || errors.Is(err, app.ErrAllInputsFailed) || errors.Is(err, app.ErrNoInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func splitInputs(list string, args []string) []string {
	out := make([]string, 0, len(args)+1)
	for _, p := range strings.Split(list, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	out = append(out, args...)
	return out
}
