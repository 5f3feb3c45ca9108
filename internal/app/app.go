package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/magicjohnson/Invoice-extractor/internal/cache"
	"github.com/magicjohnson/Invoice-extractor/internal/extract"
	"github.com/magicjohnson/Invoice-extractor/internal/invoice"
	"github.com/magicjohnson/Invoice-extractor/internal/llm"
	"github.com/magicjohnson/Invoice-extractor/internal/pdftext"
	"github.com/magicjohnson/Invoice-extractor/internal/pipeline"
	"github.com/magicjohnson/Invoice-extractor/internal/xlsx"
)

// ErrNoInput is returned when the configuration names no PDF documents.
var ErrNoInput = errors.New("no input documents")

// ErrAllInputsFailed is returned when every input document failed fatally.
var ErrAllInputsFailed = errors.New("all input documents failed")

// App owns the wired pipeline for one process invocation.
type App struct {
	cfg  Config
	pipe *pipeline.Pipeline
}

// New builds the completion client and extraction strategy from cfg and
// wires the pipeline. The LLM endpoint is probed by listing models; an
// unreachable endpoint only warns here, since chunk extraction degrades
// gracefully later.
func New(ctx context.Context, cfg Config) (*App, error) {
	strategy, err := pdftext.ForName(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	provider := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}

	preflight(ctx, provider)

	var llmCache *cache.LLMCache
	if cfg.CacheDir != "" {
		llmCache = &cache.LLMCache{Dir: cfg.CacheDir}
	}

	return &App{
		cfg: cfg,
		pipe: &pipeline.Pipeline{
			Strategy: strategy,
			Client: &extract.Client{
				LLM:     provider,
				Model:   cfg.LLMModel,
				Timeout: cfg.Timeout,
				Cache:   llmCache,
				Verbose: cfg.Verbose,
			},
			MaxTokens: cfg.MaxTokens,
		},
	}, nil
}

func preflight(ctx context.Context, lister llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Run processes every configured input document and writes the merged,
// deduplicated invoice set to the output workbook. A document that cannot
// be read or rendered is logged and skipped; the run fails only when no
// document succeeded. Cancellation stops after the current chunk and still
// exports the records gathered so far.
func (a *App) Run(ctx context.Context) error {
	if len(a.cfg.InputPaths) == 0 {
		return ErrNoInput
	}

	groups := make([][]invoice.Record, 0, len(a.cfg.InputPaths))
	failed := 0
	cancelled := false
	for _, path := range a.cfg.InputPaths {
		pdf, err := os.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("input", path).Msg("cannot read input document")
			failed++
			continue
		}
		log.Info().Str("input", path).Msg("processing document")
		recs, err := a.pipe.Run(ctx, pdf)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			groups = append(groups, recs)
			cancelled = true
			break
		}
		if err != nil {
			log.Error().Err(err).Str("input", path).Msg("document failed")
			failed++
			continue
		}
		groups = append(groups, recs)
	}
	if failed == len(a.cfg.InputPaths) {
		return ErrAllInputsFailed
	}

	records := invoice.Dedupe(groups)
	if err := xlsx.WriteFile(a.cfg.OutputPath, records, nil); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	for i, r := range records {
		log.Info().
			Int("invoice", i+1).
			Str("vendor", r.VendorName).
			Str("number", r.InvoiceNumber).
			Str("total", r.TotalAmount).
			Msg("extracted invoice")
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("invoices", len(records)).Msg("export complete")

	if cancelled {
		return ctx.Err()
	}
	return nil
}
