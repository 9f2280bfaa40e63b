package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postforge"
)

var _ postforge.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   postforge.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next postforge.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the outcome.
func (g *LoggingGenerator) Generate(ctx context.Context, req postforge.GenerateRequest) (post *postforge.BlogPost, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate post",
			append(postAttrs(post, err),
				"url", req.URL,
				"template", req.TemplateID,
				"duration", time.Since(begin),
			)...,
		)
	}(time.Now())
	return g.next.Generate(ctx, req)
}

// Improve delegates to the wrapped generator and logs the outcome.
func (g *LoggingGenerator) Improve(ctx context.Context, postID, feedback string) (post *postforge.BlogPost, err error) {
	defer func(begin time.Time) {
		g.logger.Info("improve post",
			append(postAttrs(post, err),
				"post", postID,
				"duration", time.Since(begin),
			)...,
		)
	}(time.Now())
	return g.next.Improve(ctx, postID, feedback)
}

func postAttrs(post *postforge.BlogPost, err error) []any {
	if err != nil {
		return []any{"err", err, "stage", postforge.ErrorStage(err)}
	}
	return []any{"id", post.ID, "words", post.WordCount}
}

// StageLogger returns a StageFunc that logs pipeline transitions at debug level.
func StageLogger(logger *slog.Logger) postforge.StageFunc {
	return func(ev postforge.StageEvent) {
		if ev.Err != nil {
			logger.Warn("pipeline stage", "url", ev.URL, "post", ev.PostID, "stage", ev.Stage, "err", ev.Err)
			return
		}
		logger.Debug("pipeline stage", "url", ev.URL, "post", ev.PostID, "stage", ev.Stage)
	}
}
