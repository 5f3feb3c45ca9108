package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/magicjohnson/Invoice-extractor/internal/chunk"
	"github.com/magicjohnson/Invoice-extractor/internal/extract"
	"github.com/magicjohnson/Invoice-extractor/internal/invoice"
	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
	"github.com/magicjohnson/Invoice-extractor/internal/pdftext"
)

// DefaultMaxTokens is the per-chunk token budget when the caller does not
// set one.
const DefaultMaxTokens = 100_000

// ErrNoText means every page of the document rendered empty: the document
// opened, but there is nothing to extract from. Unlike a chunk-level
// failure this is fatal for the run.
var ErrNoText = errors.New("no text content in document")

// Pipeline wires the extraction stages together. All collaborators are
// injected so tests substitute fakes without touching globals. A Pipeline
// holds no state across runs.
type Pipeline struct {
	Strategy  pdftext.Strategy
	Client    *extract.Client
	MaxTokens int
}

// Run executes extract -> chunk -> per-chunk LLM extraction -> dedup.
// Chunks are processed sequentially in page order, so the resulting record
// order is deterministic for a deterministic completion capability.
//
// Cancellation is honored between chunks: on context cancellation Run
// returns the records accumulated from completed chunks together with the
// context error, so partial progress is never discarded.
func (p *Pipeline) Run(ctx context.Context, pdf []byte) ([]invoice.Record, error) {
	pages, err := p.Strategy.Extract(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("acquire text: %w", err)
	}
	if allEmpty(pages) {
		return nil, ErrNoText
	}

	doc := pagetext.Render(pages)
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	chunks := chunk.Split(doc, maxTokens)
	log.Info().Int("pages", len(pages)).Int("chunks", len(chunks)).Str("strategy", p.Strategy.Name()).Msg("document chunked")

	groups := make([][]invoice.Record, 0, len(chunks))
	for i, ch := range chunks {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("completed_chunks", i).Msg("run cancelled; returning partial results")
			return invoice.Dedupe(groups), err
		}
		recs := p.Client.Records(ctx, ch)
		log.Debug().Int("chunk", i+1).Int("of", len(chunks)).Int("records", len(recs)).Msg("chunk extracted")
		groups = append(groups, recs)
	}
	return invoice.Dedupe(groups), nil
}

func allEmpty(pages []pagetext.Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}
