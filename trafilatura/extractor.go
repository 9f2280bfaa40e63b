// Package trafilatura extracts article content and metadata with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/postforge"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements postforge.Extractor at compile time.
var _ postforge.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content with whatever
// author, date and site metadata the page exposes.
func (e *Extractor) Extract(rawHTML string) (*postforge.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postforge.Errorf(postforge.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	out := &postforge.ExtractResult{
		Title:       meta.Title,
		ContentHTML: contentHTML,
		Author:      meta.Author,
		Description: meta.Description,
		SiteName:    meta.Sitename,
	}
	if !meta.Date.IsZero() {
		date := meta.Date.UTC()
		out.PublishedAt = &date
	}
	return out, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
