package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postforge"
)

var _ postforge.ContentExtractor = (*LoggingContentExtractor)(nil)

// LoggingContentExtractor wraps a ContentExtractor with logging.
type LoggingContentExtractor struct {
	next   postforge.ContentExtractor
	logger *slog.Logger
}

// NewLoggingContentExtractor creates a new LoggingContentExtractor.
func NewLoggingContentExtractor(next postforge.ContentExtractor, logger *slog.Logger) *LoggingContentExtractor {
	return &LoggingContentExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingContentExtractor) Extract(ctx context.Context, url string) (article *postforge.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var words int
		if article != nil {
			title = article.Title
			words = postforge.CountWords(article.BodyText)
		}
		e.logger.Info("extract",
			"url", url,
			"title", title,
			"words", words,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, url)
}
