package pdftext

import (
	"bytes"
	"context"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// Embedded reads the text layer a digital PDF already carries. It is fast
// and silent: an image-only page has no text layer and simply comes back
// empty, which is exactly the degradation the pipeline expects.
type Embedded struct{}

func (e *Embedded) Name() string { return StrategyEmbedded }

func (e *Embedded) Extract(ctx context.Context, pdf []byte) ([]pagetext.Page, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	numPages := reader.NumPage()
	pages := make([]pagetext.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := ""
		page := reader.Page(i)
		if !page.V.IsNull() {
			t, err := page.GetPlainText(nil)
			if err != nil {
				log.Warn().Err(err).Int("page", i).Msg("embedded text extraction failed for page")
			} else {
				text = cleanText(t)
			}
		}
		pages = append(pages, pagetext.Page{Number: i, Text: text})
	}
	return pages, nil
}
