package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/magicjohnson/Invoice-extractor/internal/cache"
	"github.com/magicjohnson/Invoice-extractor/internal/invoice"
	"github.com/magicjohnson/Invoice-extractor/internal/llm"
)

const systemMessage = "You are an expert at extracting structured data from invoices. Always return valid JSON."

const fieldSchema = `Analyze this partial document which contains invoices.
Extract all invoice data and return it as a structured JSON array.

For each invoice, extract these fields:
- Vendor Name
- Invoice Number
- Invoice Date
- Due Date
- PO Number (if available)
- Total Amount
- Description of Services/Goods
- Bill To / Property Name
- Payment Terms
- Remit To / Payment Instructions

Return ONLY valid JSON in this format:
[
  {
    "Vendor Name": "Vendor Name",
    "Invoice Number": "Number",
    "Invoice Date": "Date",
    "Due Date": "Date",
    "PO Number": "Number or empty",
    "Total Amount": "Amount",
    "Description": "Description",
    "Bill To": "Name",
    "Payment Terms": "Terms",
    "Payment Instructions": "Instructions"
  },
  ...
]`

// Client sends one document chunk at a time to a chat model and parses the
// reply into invoice records. Every failure mode at this level is absorbed:
// transport errors, empty choices and malformed replies all log a warning
// and yield zero records for the chunk, never an error up the stack.
type Client struct {
	LLM   llm.Client
	Model string
	// Timeout bounds each completion call. Zero means no per-call bound
	// beyond the caller's context.
	Timeout time.Duration
	Cache   *cache.LLMCache
	Verbose bool
}

// sleepFunc is swapped in tests to avoid real backoff waits.
var sleepFunc = func(d time.Duration) { time.Sleep(d) }

// retryBackoff is intentionally tiny and fixed; the retry exists for
// transient transport blips, not rate-limit pacing.
const retryBackoff = 100 * time.Millisecond

// Records extracts invoice records from a single chunk. The returned slice
// is nil when the model call or parsing fails; that chunk simply
// contributes no records.
func (c *Client) Records(ctx context.Context, chunk string) []invoice.Record {
	if c.LLM == nil || strings.TrimSpace(c.Model) == "" {
		log.Warn().Msg("extraction client not configured")
		return nil
	}
	user := fieldSchema + "\n\nDocument Text: " + chunk

	var key string
	if c.Cache != nil {
		key = cache.KeyFrom(c.Model, systemMessage+"\n\n"+user)
		if raw, ok, _ := c.Cache.Get(ctx, key); ok {
			recs, err := invoice.DecodeArray(raw)
			if err == nil {
				return recs
			}
		}
	}
	if c.Verbose {
		log.Debug().Str("model", c.Model).Int("chunk_len", len(chunk)).Msg("extraction prompt")
	}

	content, ok := c.complete(ctx, user)
	if !ok {
		return nil
	}

	raw, found := FindJSONArray(content)
	if !found {
		log.Warn().Int("content_len", len(content)).Msg("no JSON array in model reply")
		return nil
	}
	recs, err := invoice.DecodeArray([]byte(raw))
	if err != nil {
		log.Warn().Err(err).Msg("model reply JSON did not parse")
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Save(ctx, key, []byte(raw))
	}
	return recs
}

// complete performs the chat call with one bounded retry on transport error.
func (c *Client) complete(ctx context.Context, user string) (string, bool) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		N:           1,
	}
	call := func() (openai.ChatCompletionResponse, error) {
		callCtx := ctx
		if c.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}
		return c.LLM.CreateChatCompletion(callCtx, req)
	}
	resp, err := call()
	if err != nil {
		sleepFunc(retryBackoff)
		resp, err = call()
		if err != nil {
			log.Warn().Err(err).Msg("completion call failed after retry")
			return "", false
		}
	}
	if len(resp.Choices) == 0 {
		log.Warn().Msg("completion returned no choices")
		return "", false
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), true
}
