package mock

import (
	"context"

	"github.com/fwojciec/postforge"
)

var (
	_ postforge.Extractor        = (*Extractor)(nil)
	_ postforge.MetaReader       = (*MetaReader)(nil)
	_ postforge.Converter        = (*Converter)(nil)
	_ postforge.ContentExtractor = (*ContentExtractor)(nil)
)

// Extractor is a mock implementation of postforge.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*postforge.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*postforge.ExtractResult, error) {
	return e.ExtractFn(html)
}

// MetaReader is a mock implementation of postforge.MetaReader.
type MetaReader struct {
	ReadMetaFn func(html string) (*postforge.PageMeta, error)
}

func (r *MetaReader) ReadMeta(html string) (*postforge.PageMeta, error) {
	return r.ReadMetaFn(html)
}

// Converter is a mock implementation of postforge.Converter.
type Converter struct {
	ConvertFn func(html, pageURL string) (string, error)
}

func (c *Converter) Convert(html, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}

// ContentExtractor is a mock implementation of postforge.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, url string) (*postforge.Article, error)
}

func (e *ContentExtractor) Extract(ctx context.Context, url string) (*postforge.Article, error) {
	return e.ExtractFn(ctx, url)
}
