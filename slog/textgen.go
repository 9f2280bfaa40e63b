package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postforge"
)

var _ postforge.TextGenerator = (*LoggingTextGenerator)(nil)

// LoggingTextGenerator wraps a TextGenerator with logging. Prompt text is
// never logged, only its size.
type LoggingTextGenerator struct {
	next   postforge.TextGenerator
	logger *slog.Logger
}

// NewLoggingTextGenerator creates a new LoggingTextGenerator.
func NewLoggingTextGenerator(next postforge.TextGenerator, logger *slog.Logger) *LoggingTextGenerator {
	return &LoggingTextGenerator{next: next, logger: logger}
}

// GenerateText delegates to the wrapped generator and logs the outcome.
func (g *LoggingTextGenerator) GenerateText(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate text",
			"model", opts.Model,
			"prompt_chars", len(prompt.System)+len(prompt.User),
			"reply_chars", len(text),
			"json", opts.JSON,
			"duration", time.Since(begin),
			"err", err,
			"temporary", postforge.IsTemporary(err),
		)
	}(time.Now())
	return g.next.GenerateText(ctx, prompt, opts)
}
