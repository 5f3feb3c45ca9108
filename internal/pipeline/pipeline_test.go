package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/magicjohnson/Invoice-extractor/internal/extract"
	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
)

// fakeStrategy serves fixed pages without touching a real PDF.
type fakeStrategy struct {
	pages []pagetext.Page
	err   error
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) Extract(context.Context, []byte) ([]pagetext.Page, error) {
	return f.pages, f.err
}

// scriptedLLM returns one canned content string per call, in order.
type scriptedLLM struct {
	replies []string
	calls   int
	// onCall, when set, runs before each reply is served.
	onCall func(call int)
}

func (s *scriptedLLM) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.onCall != nil {
		s.onCall(s.calls)
	}
	reply := "[]"
	if s.calls < len(s.replies) {
		reply = s.replies[s.calls]
	}
	s.calls++
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: reply}},
		},
	}, nil
}

func newPipeline(strategy *fakeStrategy, llmc *scriptedLLM, maxTokens int) *Pipeline {
	return &Pipeline{
		Strategy:  strategy,
		Client:    &extract.Client{LLM: llmc, Model: "test-model"},
		MaxTokens: maxTokens,
	}
}

func TestRun_SinglePageSingleInvoice(t *testing.T) {
	strategy := &fakeStrategy{pages: []pagetext.Page{
		{Number: 1, Text: "Invoice Number: INV12345\nVendor Name: Example Vendor\nTotal Amount: $1000.00"},
	}}
	llmc := &scriptedLLM{replies: []string{
		`[{"Vendor Name": "Example Vendor", "Invoice Number": "INV12345", "Invoice Date": "2025-09-01", "Total Amount": "$1000.00"}]`,
	}}
	recs, err := newPipeline(strategy, llmc, 0).Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.VendorName != "Example Vendor" || r.InvoiceNumber != "INV12345" ||
		r.InvoiceDate != "2025-09-01" || r.TotalAmount != "$1000.00" {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestRun_DuplicateAcrossChunksCollapses(t *testing.T) {
	// Two oversized pages force two chunks; both chunks report the same
	// invoice, the second with a different amount.
	strategy := &fakeStrategy{pages: []pagetext.Page{
		{Number: 1, Text: strings.Repeat("invoice text ", 10)},
		{Number: 2, Text: strings.Repeat("more invoice text ", 10)},
	}}
	llmc := &scriptedLLM{replies: []string{
		`[{"Vendor Name": "Example Vendor", "Invoice Number": "INV12345", "Total Amount": "$1000.00"}]`,
		`[{"Vendor Name": "Example Vendor", "Invoice Number": "INV12345", "Total Amount": "$2000.00"}]`,
	}}
	recs, err := newPipeline(strategy, llmc, 10).Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if llmc.calls != 2 {
		t.Fatalf("expected 2 chunk extractions, got %d", llmc.calls)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(recs))
	}
	if recs[0].TotalAmount != "$1000.00" {
		t.Fatalf("first-seen record must win: %+v", recs[0])
	}
}

func TestRun_EmptyResultIsNotAnError(t *testing.T) {
	strategy := &fakeStrategy{pages: []pagetext.Page{{Number: 1, Text: "just a letter, no invoices"}}}
	llmc := &scriptedLLM{replies: []string{"no invoices in this document"}}
	recs, err := newPipeline(strategy, llmc, 0).Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty result, got %v", recs)
	}
}

func TestRun_AllPagesEmptyIsFatal(t *testing.T) {
	strategy := &fakeStrategy{pages: []pagetext.Page{{Number: 1, Text: ""}, {Number: 2, Text: "  "}}}
	_, err := newPipeline(strategy, &scriptedLLM{}, 0).Run(context.Background(), []byte("%PDF"))
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestRun_UnreadableDocumentIsFatal(t *testing.T) {
	strategy := &fakeStrategy{err: errors.New("open pdf: broken")}
	_, err := newPipeline(strategy, &scriptedLLM{}, 0).Run(context.Background(), []byte("nope"))
	if err == nil {
		t.Fatalf("expected fatal error")
	}
}

func TestRun_CancellationKeepsCompletedChunks(t *testing.T) {
	strategy := &fakeStrategy{pages: []pagetext.Page{
		{Number: 1, Text: strings.Repeat("a ", 30)},
		{Number: 2, Text: strings.Repeat("b ", 30)},
		{Number: 3, Text: strings.Repeat("c ", 30)},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	llmc := &scriptedLLM{
		replies: []string{
			`[{"Vendor Name": "A", "Invoice Number": "1"}]`,
			`[{"Vendor Name": "B", "Invoice Number": "2"}]`,
		},
		onCall: func(call int) {
			if call == 1 {
				cancel() // takes effect before chunk 3
			}
		},
	}
	recs, err := newPipeline(strategy, llmc, 10).Run(ctx, []byte("%PDF"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records from completed chunks, got %v", recs)
	}
	if recs[0].VendorName != "A" || recs[1].VendorName != "B" {
		t.Fatalf("unexpected partial records: %v", recs)
	}
}

func TestRun_Deterministic(t *testing.T) {
	strategy := &fakeStrategy{pages: []pagetext.Page{{Number: 1, Text: "invoice"}}}
	reply := `[{"Vendor Name": "V", "Invoice Number": "1"}]`
	a, err := newPipeline(strategy, &scriptedLLM{replies: []string{reply}}, 0).Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, err := newPipeline(strategy, &scriptedLLM{replies: []string{reply}}, 0).Run(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("runs disagree: %v vs %v", a, b)
	}
}
