package pdftext

import (
	"context"
	"fmt"

	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// Strategy turns raw PDF bytes into per-page text. Implementations must
// produce one entry per source page in increasing page order and never a
// null page: a page that fails to render contributes an empty string so one
// bad page cannot sink the document. Only a document that cannot be opened
// at all returns an error.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, pdf []byte) ([]pagetext.Page, error)
}

// Strategy names accepted in configuration.
const (
	StrategyEmbedded = "embedded"
	StrategyStream   = "stream"
	StrategyOCR      = "ocr"
)

// ForName resolves a configured strategy name. An empty name selects the
// embedded-text strategy, the fast default for digital PDFs.
func ForName(name string) (Strategy, error) {
	switch name {
	case "", StrategyEmbedded:
		return &Embedded{}, nil
	case StrategyStream:
		return &Stream{}, nil
	case StrategyOCR:
		return NewOCR(), nil
	}
	return nil, fmt.Errorf("unknown extraction strategy %q", name)
}
