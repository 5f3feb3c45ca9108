package pagetext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Page is one page of document text. Numbers are 1-based and strictly
// increasing in any slice produced by this module or the extractors.
type Page struct {
	Number int
	Text   string
}

// markerRe matches the page boundary sentinel embedded in rendered document
// text. The sentinel is chosen to be unlikely to occur in real invoice
// content.
var markerRe = regexp.MustCompile(`===== Page (\d+) =====`)

// Marker returns the boundary sentinel for the given page number.
func Marker(n int) string {
	return fmt.Sprintf("===== Page %d =====", n)
}

// Render serializes pages into a single document string with an explicit
// boundary marker before each page. Parse reverses it.
func Render(pages []Page) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(Marker(p.Number))
		sb.WriteString("\n")
		sb.WriteString(p.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Parse splits a rendered document back into pages. Page numbers are read
// from the markers. Text that precedes the first marker is ignored; input
// without any marker yields nil.
func Parse(doc string) []Page {
	locs := markerRe.FindAllStringSubmatchIndex(doc, -1)
	if len(locs) == 0 {
		return nil
	}
	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		n, err := strconv.Atoi(doc[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := doc[loc[1]:end]
		body = strings.TrimPrefix(body, "\n")
		body = strings.TrimSuffix(body, "\n\n")
		pages = append(pages, Page{Number: n, Text: body})
	}
	return pages
}

// Blocks splits a rendered document into per-page blocks, each retaining its
// leading marker. Blocks whose text is empty or whitespace-only are dropped.
// The chunker packs these blocks without ever splitting one.
func Blocks(doc string) []string {
	locs := markerRe.FindAllStringIndex(doc, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(doc) == "" {
			return nil
		}
		return []string{strings.TrimSpace(doc)}
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := strings.TrimSpace(doc[loc[0]:end])
		body := markerRe.ReplaceAllString(block, "")
		if strings.TrimSpace(body) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}
