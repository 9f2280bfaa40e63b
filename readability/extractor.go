// Package readability extracts article content with go-readability. It is
// the fallback when trafilatura finds no main content.
package readability

import (
	"strings"

	"github.com/fwojciec/postforge"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements postforge.Extractor at compile time.
var _ postforge.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*postforge.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postforge.Errorf(postforge.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	result := &postforge.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Author:      strings.TrimSpace(article.Byline),
		Description: article.Excerpt,
		SiteName:    article.SiteName,
	}
	if article.PublishedTime != nil {
		t := article.PublishedTime.UTC()
		result.PublishedAt = &t
	}
	return result, nil
}
