package postforge

import (
	"context"
	"time"
)

// MaxTags is the maximum number of tags a post may carry.
const MaxTags = 10

// PostStatus is the publication status of a blog post.
type PostStatus string

// PostStatus constants.
const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// BlogPost represents a generated blog post.
type BlogPost struct {
	ID              string            `json:"id"`
	SourceURL       string            `json:"source_url"`
	Title           string            `json:"title"`
	Body            string            `json:"body"` // Markdown
	Sections        map[string]string `json:"sections,omitempty"`
	TemplateID      string            `json:"template_id"`
	TemplateVersion int               `json:"template_version"`
	Status          PostStatus        `json:"status"`
	Tags            []string          `json:"tags"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	WordCount       int               `json:"word_count"`
	ReadingTime     int               `json:"reading_time"`
	ContentHash     string            `json:"content_hash"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Validate returns an error if the post contains invalid fields.
func (p *BlogPost) Validate() error {
	if p.SourceURL == "" {
		return Errorf(EINVALID, "post source URL required")
	}
	if p.TemplateID == "" {
		return Errorf(EINVALID, "post template ID required")
	}
	if p.Title == "" {
		return Errorf(EINVALID, "post title required")
	}
	if p.Body == "" {
		return Errorf(EINVALID, "post body required")
	}
	if !p.Status.Valid() {
		return Errorf(EINVALID, "invalid post status %q", p.Status)
	}
	if len(p.Tags) > MaxTags {
		return Errorf(EINVALID, "at most %d tags allowed", MaxTags)
	}
	return nil
}

// PostService represents a service for managing blog posts.
// Posts are never hard-deleted; status changes replace deletion.
type PostService interface {
	// CreatePost creates a new post.
	// Returns ENOTFOUND if the referenced template does not exist.
	CreatePost(ctx context.Context, post *BlogPost) error

	// FindPostByID retrieves a post by ID.
	// Returns ENOTFOUND if post does not exist.
	FindPostByID(ctx context.Context, id string) (*BlogPost, error)

	// FindPosts retrieves posts matching the filter along with the total
	// number of matches ignoring pagination.
	FindPosts(ctx context.Context, filter PostFilter) ([]*BlogPost, int, error)

	// UpdatePost updates an existing post.
	// Returns ENOTFOUND if post does not exist and EINVALIDOP if the
	// update attempts to change the template ID.
	UpdatePost(ctx context.Context, id string, upd PostUpdate) (*BlogPost, error)
}

// PostOrder is the sort order for post queries.
type PostOrder string

// PostOrder constants for PostFilter.
const (
	NewestFirst PostOrder = "newest"
	OldestFirst PostOrder = "oldest"
)

// PostFilter represents a filter for FindPosts.
type PostFilter struct {
	ID         *string     `json:"id"`
	TemplateID *string     `json:"template_id"`
	Status     *PostStatus `json:"status"`
	Tag        *string     `json:"tag"`

	// Query matches a substring of title or body.
	Query *string `json:"q"`

	CreatedAfter  *time.Time `json:"since"`
	CreatedBefore *time.Time `json:"until"`

	Order PostOrder `json:"order"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PostUpdate represents fields that can be updated on a post.
// TemplateID is accepted only so that attempts to change it can be rejected.
type PostUpdate struct {
	Title           *string           `json:"title"`
	Body            *string           `json:"body"`
	Sections        map[string]string `json:"sections"`
	TemplateID      *string           `json:"template_id"`
	TemplateVersion *int              `json:"template_version"`
	Status          *PostStatus       `json:"status"`
	Tags            *[]string         `json:"tags"`
	Metadata        map[string]string `json:"metadata"`
}

// GenerateRequest asks for a new post to be generated from a URL.
type GenerateRequest struct {
	URL                string   `json:"url"`
	TemplateID         string   `json:"template_id"`
	CustomInstructions string   `json:"custom_instructions,omitempty"`
	Tags               []string `json:"tags,omitempty"`
}

// Generator produces and improves blog posts.
type Generator interface {
	// Generate runs the full pipeline for a URL and returns the stored post.
	Generate(ctx context.Context, req GenerateRequest) (*BlogPost, error)

	// Improve regenerates a post's body from user feedback.
	Improve(ctx context.Context, postID, feedback string) (*BlogPost, error)
}

// PostExporter writes posts somewhere outside the database. Saved posts
// become visible together on Commit; Abort discards them.
type PostExporter interface {
	Save(ctx context.Context, post *BlogPost) error
	Commit() error
	Abort() error
}
