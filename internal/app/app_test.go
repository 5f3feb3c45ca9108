package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/xuri/excelize/v2"

	"github.com/magicjohnson/Invoice-extractor/internal/extract"
	"github.com/magicjohnson/Invoice-extractor/internal/pagetext"
	"github.com/magicjohnson/Invoice-extractor/internal/pipeline"
)

type stubStrategy struct {
	pages []pagetext.Page
	err   error
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Extract(context.Context, []byte) ([]pagetext.Page, error) {
	return s.pages, s.err
}

type stubLLM struct{ content string }

func (s *stubLLM) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: s.content}},
		},
	}, nil
}

func testApp(cfg Config, strategy *stubStrategy, content string) *App {
	return &App{
		cfg: cfg,
		pipe: &pipeline.Pipeline{
			Strategy: strategy,
			Client:   &extract.Client{LLM: &stubLLM{content: content}, Model: "test-model"},
		},
	}
}

func TestRun_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoices_example.pdf")
	if err := os.WriteFile(input, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "extracted.xlsx")

	strategy := &stubStrategy{pages: []pagetext.Page{{Number: 1, Text: "Invoice Number: INV12345"}}}
	reply := `[{"Vendor Name": "Example Vendor", "Invoice Number": "INV12345", "Total Amount": "$1000.00"}]`
	a := testApp(Config{InputPaths: []string{input}, OutputPath: out}, strategy, reply)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Example Vendor" || rows[1][1] != "INV12345" {
		t.Fatalf("unexpected workbook rows: %v", rows)
	}
}

func TestRun_NoInputs(t *testing.T) {
	a := testApp(Config{}, &stubStrategy{}, "[]")
	if err := a.Run(context.Background()); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestRun_AllInputsFailed(t *testing.T) {
	dir := t.TempDir()
	a := testApp(
		Config{InputPaths: []string{filepath.Join(dir, "missing.pdf")}, OutputPath: filepath.Join(dir, "out.xlsx")},
		&stubStrategy{},
		"[]",
	)
	if err := a.Run(context.Background()); !errors.Is(err, ErrAllInputsFailed) {
		t.Fatalf("expected ErrAllInputsFailed, got %v", err)
	}
}

func TestRun_UnreadableDocumentSkippedNotFatalForBatch(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pdf")
	good := filepath.Join(dir, "good.pdf")
	for _, p := range []string{bad, good} {
		if err := os.WriteFile(p, []byte("%PDF-stub"), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	out := filepath.Join(dir, "out.xlsx")

	// First document renders no text at all; second succeeds.
	calls := 0
	strategy := &switchingStrategy{fn: func() ([]pagetext.Page, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("open pdf: broken")
		}
		return []pagetext.Page{{Number: 1, Text: "Invoice Number: INV12345"}}, nil
	}}
	reply := `[{"Vendor Name": "Example Vendor", "Invoice Number": "INV12345"}]`
	a := &App{
		cfg: Config{InputPaths: []string{bad, good}, OutputPath: out},
		pipe: &pipeline.Pipeline{
			Strategy: strategy,
			Client:   &extract.Client{LLM: &stubLLM{content: reply}, Model: "test-model"},
		},
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run should survive one bad document: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("workbook missing: %v", err)
	}
}

type switchingStrategy struct {
	fn func() ([]pagetext.Page, error)
}

func (s *switchingStrategy) Name() string { return "switching" }

func (s *switchingStrategy) Extract(context.Context, []byte) ([]pagetext.Page, error) {
	return s.fn()
}
