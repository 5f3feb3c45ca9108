package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"

	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// Stream is the alternate-library strategy: it validates the document with
// pdfcpu and decodes text show operators straight out of each page's content
// stream. It handles some PDFs the embedded reader chokes on, at the cost of
// cruder positioning.
type Stream struct{}

func (s *Stream) Name() string { return StrategyStream }

func (s *Stream) Extract(ctx context.Context, pdf []byte) ([]pagetext.Page, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	pages := make([]pagetext.Page, 0, pctx.PageCount)
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pagetext.Page{Number: pageNr, Text: pageContentText(pctx, pageNr)})
	}
	return pages, nil
}

// pageContentText pulls one page's content stream and decodes its text.
// Any failure degrades to an empty page.
func pageContentText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		log.Warn().Err(err).Int("page", pageNr).Msg("content stream extraction failed for page")
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return cleanText(streamText(data))
}

// literalRe matches PDF string literals: (text here)
var literalRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// streamText walks content stream lines and collects the arguments of the
// text show operators (Tj, TJ, '). Positioning operators become whitespace
// so words don't fuse across lines.
func streamText(data []byte) string {
	var sb bytes.Buffer
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range literalRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodeLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range literalRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodeLiteral(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// decodeLiteral resolves PDF string escapes, including octal byte codes.
func decodeLiteral(raw []byte) string {
	var sb bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}
