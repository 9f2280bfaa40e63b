// Package goquery reads article metadata from HTML with goquery.
package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postforge"
)

// Ensure MetaReader implements postforge.MetaReader at compile time.
var _ postforge.MetaReader = (*MetaReader)(nil)

// Selectors tried in order for each field. The first non-empty value wins.
var (
	titleSelectors = []string{
		`meta[property="og:title"]`,
		`meta[name="twitter:title"]`,
	}
	authorSelectors = []string{
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`,
	}
	descriptionSelectors = []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
	}
	siteNameSelectors = []string{
		`meta[property="og:site_name"]`,
		`meta[name="application-name"]`,
	}
	dateSelectors = []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="pubdate"]`,
		`meta[itemprop="datePublished"]`,
	}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MetaReader reads Open Graph, article and standard meta tags.
type MetaReader struct{}

// NewMetaReader creates a new MetaReader.
func NewMetaReader() *MetaReader {
	return &MetaReader{}
}

// ReadMeta parses html and returns the metadata found in it.
func (r *MetaReader) ReadMeta(html string) (*postforge.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postforge.Errorf(postforge.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := &postforge.PageMeta{
		Title:       firstContent(doc, titleSelectors),
		Author:      firstContent(doc, authorSelectors),
		Description: firstContent(doc, descriptionSelectors),
		SiteName:    firstContent(doc, siteNameSelectors),
		Keywords:    keywords(doc),
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Author == "" {
		meta.Author = strings.TrimSpace(doc.Find(`[rel="author"]`).First().Text())
	}

	date := firstContent(doc, dateSelectors)
	if date == "" {
		date, _ = doc.Find("time[datetime]").First().Attr("datetime")
	}
	meta.PublishedAt = parseDate(date)

	return meta, nil
}

func firstContent(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func keywords(doc *goquery.Document) []string {
	var out []string
	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr("content", "")); v != "" {
			out = append(out, v)
		}
	})
	if v, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
