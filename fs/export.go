// Package fs exports blog posts as markdown files.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/postforge"
)

// Ensure Exporter implements postforge.PostExporter at compile time.
var _ postforge.PostExporter = (*Exporter)(nil)

// Exporter writes posts as markdown files with YAML frontmatter.
// Files are written to baseDir/name.tmp and moved to baseDir/name on Commit,
// so a failed export never leaves a half-written directory behind.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// PostPath returns the file name for a post: creation date, title slug
// and the first eight characters of its ID.
// Example: 2024-03-05-why-channels-matter-1b4e28ba.md
func PostPath(post *postforge.BlogPost) string {
	slug := postforge.Slug(post.Title)
	if slug == "" {
		slug = "post"
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	id := post.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return post.CreatedAt.Format("2006-01-02") + "-" + slug + "-" + id + ".md"
}

// FormatPost formats a post with YAML frontmatter. String values are
// double-quoted so titles containing colons stay valid YAML.
func FormatPost(post *postforge.BlogPost) string {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "id", strconv.Quote(post.ID))
	writeField(&b, "title", strconv.Quote(post.Title))
	writeField(&b, "source", strconv.Quote(post.SourceURL))
	writeField(&b, "template", strconv.Quote(post.TemplateID))
	writeField(&b, "template_version", strconv.Itoa(post.TemplateVersion))
	writeField(&b, "status", string(post.Status))

	tags := make([]string, len(post.Tags))
	for i, t := range post.Tags {
		tags[i] = strconv.Quote(t)
	}
	writeField(&b, "tags", "["+strings.Join(tags, ", ")+"]")

	writeField(&b, "word_count", strconv.Itoa(post.WordCount))
	writeField(&b, "reading_time", strconv.Itoa(post.ReadingTime))
	writeField(&b, "created", post.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	writeField(&b, "updated", post.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString("---\n\n")
	b.WriteString(post.Body)
	if !strings.HasSuffix(post.Body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

// Save writes a post to the temporary directory.
func (e *Exporter) Save(ctx context.Context, post *postforge.BlogPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post.ID == "" {
		return postforge.Errorf(postforge.EINVALID, "post ID required")
	}

	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}

	fullPath := filepath.Join(e.tempDir(), PostPath(post))
	return os.WriteFile(fullPath, []byte(FormatPost(post)), 0644)
}

// Commit replaces the final directory with the exported files.
func (e *Exporter) Commit() error {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards everything saved since the last Commit.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}
