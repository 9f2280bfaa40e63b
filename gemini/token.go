package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/postforge"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model whose vocabulary is used when none is given.
const TokenizerModel = "gemini-2.0-flash"

var _ postforge.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts prompt tokens offline with the Gemini tokenizer.
type TokenCounter struct {
	tok   *tokenizer.LocalTokenizer
	model string
}

// NewTokenCounter loads the tokenizer for model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for %s: %w", model, err)
	}
	return &TokenCounter{tok: tok, model: model}, nil
}

// Model returns the model the tokenizer was loaded for.
func (tc *TokenCounter) Model() string { return tc.model }

// CountTokens counts the tokens text would use as a user turn.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
