package postforge

import (
	"context"
	"net/url"
	"time"
)

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	Author      string
	Description string
	SiteName    string
	PublishedAt *time.Time
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// An empty ContentHTML means no main content was found.
	Extract(html string) (*ExtractResult, error)
}

// PageMeta holds metadata read from a page's head.
type PageMeta struct {
	Title       string
	Author      string
	Description string
	SiteName    string
	PublishedAt *time.Time

	// Keywords come from article:tag and keywords meta tags.
	Keywords []string
}

// MetaReader reads article metadata (Open Graph, article:*, author tags).
type MetaReader interface {
	ReadMeta(html string) (*PageMeta, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML content into Markdown. Relative links
	// are resolved against pageURL when it is set.
	Convert(html, pageURL string) (string, error)
}

// Article is the cleaned content of a web page.
type Article struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	BodyText    string     `json:"body_text"` // Markdown
	Author      string     `json:"author,omitempty"`
	Description string     `json:"description,omitempty"`
	SiteName    string     `json:"site_name,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// ContentExtractor turns a URL into an Article.
type ContentExtractor interface {
	// Extract fetches url and returns its main content.
	// Returns EINVALID for malformed URLs, EFETCH or ETIMEOUT when the page
	// cannot be retrieved and EEXTRACTION when it holds no usable content.
	Extract(ctx context.Context, url string) (*Article, error)
}

// ParseArticleURL validates that raw is an absolute http or https URL.
func ParseArticleURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, Errorf(EINVALID, "URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "URL must be absolute: %q", raw)
	}
	return u, nil
}
