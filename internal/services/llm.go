package services

import "context"

// LLMClient is a plain text-completion boundary. Replies are untrusted and
// carry no format guarantee.
type LLMClient interface {
	// Generate sends prompt and returns the reply text. A nil opts uses the
	// provider's default generation settings.
	Generate(ctx context.Context, prompt string, opts *GenerationOptions) (string, error)
}

type GenerationOptions struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}
