package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the single completion capability the extraction core needs. It
// mirrors CreateChatCompletion so any OpenAI-compatible backend (hosted API,
// local server, test fake) plugs in without adapters in the core.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelLister is an optional capability used only for the startup preflight
// check. Detect it with a type assertion; backends without it are fine.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to Client and ModelLister.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}
