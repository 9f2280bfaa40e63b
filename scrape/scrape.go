// Package scrape turns a URL into an Article. It coordinates rate-limited
// fetching, main-content extraction, metadata reading and conversion to
// markdown.
package scrape

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/postforge"
	"golang.org/x/sync/errgroup"
)

// Default content limits.
const (
	DefaultMaxChars = 50000
	DefaultMinWords = 20
)

var _ postforge.ContentExtractor = (*Scraper)(nil)

// Scraper implements postforge.ContentExtractor.
type Scraper struct {
	Fetcher   postforge.Fetcher
	Extractor postforge.Extractor

	// Fallback is tried when Extractor finds no main content.
	Fallback postforge.Extractor

	Meta      postforge.MetaReader
	Converter postforge.Converter

	// Limiter spaces out requests to the same host. Optional.
	Limiter postforge.HostLimiter

	// Retry governs fetch retries. The zero value means a single attempt.
	Retry postforge.RetryPolicy

	// MaxChars caps the article body; longer bodies are cut at a paragraph
	// boundary. Zero means DefaultMaxChars.
	MaxChars int

	// MinWords is the smallest body accepted as an article.
	// Zero means DefaultMinWords.
	MinWords int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Extract fetches url and returns its main content as markdown.
func (s *Scraper) Extract(ctx context.Context, rawURL string) (*postforge.Article, error) {
	u, err := postforge.ParseArticleURL(rawURL)
	if err != nil {
		return nil, err
	}
	pageURL := u.String()

	html, err := postforge.Retry(ctx, s.Retry, func(ctx context.Context) (string, error) {
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx, u.Host); err != nil {
				return "", err
			}
		}
		return s.Fetcher.Fetch(ctx, pageURL)
	})
	if err != nil {
		return nil, contextError(ctx, err, pageURL)
	}

	var result *postforge.ExtractResult
	var meta *postforge.PageMeta

	g := new(errgroup.Group)
	g.Go(func() error {
		result = s.extract(html)
		return nil
	})
	if s.Meta != nil {
		g.Go(func() error {
			// Missing metadata never fails an extraction.
			meta, _ = s.Meta.ReadMeta(html)
			return nil
		})
	}
	_ = g.Wait()

	if result == nil {
		return nil, postforge.Errorf(postforge.EEXTRACTION, "no main content found at %s", pageURL)
	}

	markdown, err := s.Converter.Convert(result.ContentHTML, pageURL)
	if err != nil {
		return nil, postforge.Errorf(postforge.EEXTRACTION, "convert %s: %v", pageURL, err)
	}

	if words := postforge.CountWords(markdown); words < s.minWords() {
		return nil, postforge.Errorf(postforge.EEXTRACTION, "too little content at %s: %d words", pageURL, words)
	}

	article := &postforge.Article{
		URL:       pageURL,
		BodyText:  Truncate(markdown, s.maxChars()),
		FetchedAt: s.now().UTC(),
	}
	merge(article, result, meta)
	return article, nil
}

// extract runs the primary extractor and falls back when it finds nothing.
// Returns nil when neither yields content.
func (s *Scraper) extract(html string) *postforge.ExtractResult {
	for _, ex := range []postforge.Extractor{s.Extractor, s.Fallback} {
		if ex == nil {
			continue
		}
		r, err := ex.Extract(html)
		if err != nil || r == nil || strings.TrimSpace(r.ContentHTML) == "" {
			continue
		}
		return r
	}
	return nil
}

// merge fills article metadata. The extractor's title wins; meta tags win
// for everything else.
func merge(a *postforge.Article, r *postforge.ExtractResult, m *postforge.PageMeta) {
	if m == nil {
		m = &postforge.PageMeta{}
	}
	a.Title = firstNonEmpty(r.Title, m.Title)
	a.Author = firstNonEmpty(m.Author, r.Author)
	a.Description = firstNonEmpty(m.Description, r.Description)
	a.SiteName = firstNonEmpty(m.SiteName, r.SiteName)
	a.Keywords = m.Keywords

	a.PublishedAt = m.PublishedAt
	if a.PublishedAt == nil {
		a.PublishedAt = r.PublishedAt
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// contextError reports an expired deadline as ETIMEOUT and a canceled
// request as EFETCH. Application errors pass through unchanged.
func contextError(ctx context.Context, err error, pageURL string) error {
	var e *postforge.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return postforge.Errorf(postforge.ETIMEOUT, "fetch %s: deadline exceeded", pageURL)
	}
	return postforge.Errorf(postforge.EFETCH, "fetch %s: %v", pageURL, err)
}

// Truncate shortens markdown to at most max runes, preferring to cut at the
// last paragraph break in the second half of the allowance.
func Truncate(markdown string, max int) string {
	if max <= 0 || utf8.RuneCountInString(markdown) <= max {
		return markdown
	}
	cut := 0
	for i := range markdown {
		if max == 0 {
			cut = i
			break
		}
		max--
	}
	head := markdown[:cut]
	if i := strings.LastIndex(head, "\n\n"); i > len(head)/2 {
		head = head[:i]
	}
	return strings.TrimSpace(head)
}

func (s *Scraper) maxChars() int {
	if s.MaxChars > 0 {
		return s.MaxChars
	}
	return DefaultMaxChars
}

func (s *Scraper) minWords() int {
	if s.MinWords > 0 {
		return s.MinWords
	}
	return DefaultMinWords
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
