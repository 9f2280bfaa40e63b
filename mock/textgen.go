package mock

import (
	"context"

	"github.com/fwojciec/postforge"
)

var (
	_ postforge.TextGenerator = (*TextGenerator)(nil)
	_ postforge.TokenCounter  = (*TokenCounter)(nil)
)

// TextGenerator is a mock implementation of postforge.TextGenerator.
type TextGenerator struct {
	GenerateTextFn func(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (string, error)
}

func (g *TextGenerator) GenerateText(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (string, error) {
	return g.GenerateTextFn(ctx, prompt, opts)
}

// TokenCounter is a mock implementation of postforge.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
