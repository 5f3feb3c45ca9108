package pdftext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// OCR rasterizes each page with pdftoppm and runs tesseract over the
// images. Slow, but it is the only strategy that reads scanned documents.
type OCR struct {
	Runner    Runner
	Pdftoppm  string
	Tesseract string
	DPI       int
}

// NewOCR returns an OCR strategy bound to the real external tools.
func NewOCR() *OCR {
	return &OCR{Runner: execRunner{}, Pdftoppm: "pdftoppm", Tesseract: "tesseract", DPI: 300}
}

func (o *OCR) Name() string { return StrategyOCR }

func (o *OCR) Extract(ctx context.Context, pdf []byte) ([]pagetext.Page, error) {
	tmpDir, err := os.MkdirTemp("", "invoice-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("ocr write input: %w", err)
	}

	// pdftoppm -r <dpi> -png input.pdf <tmp>/page
	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := o.Runner.Run(ctx, o.Pdftoppm, "-r", fmt.Sprintf("%d", o.DPI), "-png", src, prefix); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, errb)
	}

	// pdftoppm numbers output as page-1.png, page-2.png, ...
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}

	pages := make([]pagetext.Page, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := ""
		// tesseract <img> stdout
		out, _, err := o.Runner.Run(ctx, o.Tesseract, img, "stdout")
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("ocr failed for page")
		} else {
			text = cleanText(string(out))
		}
		pages = append(pages, pagetext.Page{Number: i + 1, Text: text})
	}
	return pages, nil
}
