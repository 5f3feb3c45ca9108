package chunk

import (
	"strings"

	"github.com/magicjohnson/Invoice-extractor/internal/budget"
	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// Split partitions a rendered document into chunks bounded by an approximate
// token budget. Chunk boundaries only fall on page boundaries: the document
// is split into per-page blocks, blank pages are dropped, and blocks are
// packed greedily while the character budget holds. A single page larger
// than the whole budget still becomes its own chunk; the budget is advisory,
// never an error.
//
// The result is deterministic: chunk order equals page order and every
// non-empty page appears in exactly one chunk.
func Split(doc string, maxTokens int) []string {
	maxChars := budget.ApproxChars(maxTokens)
	blocks := pagetext.Blocks(doc)
	if len(blocks) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(blocks))
	var current strings.Builder
	for _, block := range blocks {
		if current.Len() > 0 && maxChars > 0 && current.Len()+len(block) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
