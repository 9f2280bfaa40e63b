package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ postforge.PostService = (*PostService)(nil)

// PostService implements postforge.PostService using SQLite.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

const postColumns = `id, source_url, title, body, sections, template_id, template_version, status, tags, metadata,
	word_count, reading_time, content_hash, created_at, updated_at`

func scanPost(row scanner) (*postforge.BlogPost, error) {
	var post postforge.BlogPost
	var sections, tags, metadata, createdAt, updatedAt string

	if err := row.Scan(&post.ID, &post.SourceURL, &post.Title, &post.Body, &sections, &post.TemplateID,
		&post.TemplateVersion, &post.Status, &tags, &metadata, &post.WordCount, &post.ReadingTime,
		&post.ContentHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(sections, "sections", &post.Sections); err != nil {
		return nil, err
	}
	if err := decodeJSON(tags, "tags", &post.Tags); err != nil {
		return nil, err
	}
	if err := decodeJSON(metadata, "metadata", &post.Metadata); err != nil {
		return nil, err
	}

	var err error
	if post.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &post, nil
}

// prepare normalizes tags and derives the body statistics.
func prepare(post *postforge.BlogPost) {
	post.Tags = postforge.NormalizeTags(post.Tags)
	post.WordCount = postforge.CountWords(post.Body)
	post.ReadingTime = postforge.ReadingTime(post.WordCount)
	post.ContentHash = hashContent(post.Body)
}

// encodePost returns the JSON columns of a post.
func encodePost(post *postforge.BlogPost) (sections, tags, metadata string, err error) {
	if post.Sections == nil {
		post.Sections = map[string]string{}
	}
	if post.Metadata == nil {
		post.Metadata = map[string]string{}
	}
	if sections, err = encodeJSON(post.Sections); err != nil {
		return "", "", "", err
	}
	if tags, err = encodeJSON(post.Tags); err != nil {
		return "", "", "", err
	}
	if metadata, err = encodeJSON(post.Metadata); err != nil {
		return "", "", "", err
	}
	return sections, tags, metadata, nil
}

// CreatePost creates a new post with a generated ID. An empty status
// defaults to draft and a zero template version to the template's current one.
func (s *PostService) CreatePost(ctx context.Context, post *postforge.BlogPost) error {
	if post.Status == "" {
		post.Status = postforge.PostDraft
	}
	prepare(post)
	if err := post.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRowContext(ctx, "SELECT version FROM templates WHERE id = ?", post.TemplateID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return postforge.Errorf(postforge.ENOTFOUND, "template %q not found", post.TemplateID)
	} else if err != nil {
		return err
	}
	if post.TemplateVersion == 0 {
		post.TemplateVersion = version
	}

	sections, tags, metadata, err := encodePost(post)
	if err != nil {
		return err
	}

	post.ID = uuid.New().String()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO blog_posts (id, source_url, title, body, sections, template_id, template_version, status,
			tags, metadata, word_count, reading_time, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.SourceURL, post.Title, post.Body, sections, post.TemplateID, post.TemplateVersion,
		string(post.Status), tags, metadata, post.WordCount, post.ReadingTime, post.ContentHash,
		formatTime(post.CreatedAt), formatTime(post.UpdatedAt)); err != nil {
		return err
	}

	return tx.Commit()
}

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id string) (*postforge.BlogPost, error) {
	post, err := scanPost(s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM blog_posts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postforge.Errorf(postforge.ENOTFOUND, "post %q not found", id)
	}
	return post, err
}

// FindPosts retrieves posts matching the filter and the total match count.
func (s *PostService) FindPosts(ctx context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString(" WHERE 1=1")

	if filter.ID != nil {
		where.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.TemplateID != nil {
		where.WriteString(" AND template_id = ?")
		args = append(args, *filter.TemplateID)
	}
	if filter.Status != nil {
		where.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Tag != nil {
		where.WriteString(" AND EXISTS (SELECT 1 FROM json_each(blog_posts.tags) WHERE json_each.value = ?)")
		args = append(args, strings.ToLower(strings.TrimSpace(*filter.Tag)))
	}
	if filter.Query != nil && *filter.Query != "" {
		where.WriteString(` AND (title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')`)
		p := likePattern(*filter.Query)
		args = append(args, p, p)
	}
	if filter.CreatedAfter != nil {
		where.WriteString(" AND created_at >= ?")
		args = append(args, formatTime(*filter.CreatedAfter))
	}
	if filter.CreatedBefore != nil {
		where.WriteString(" AND created_at < ?")
		args = append(args, formatTime(*filter.CreatedBefore))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_posts"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	var query strings.Builder
	query.WriteString("SELECT " + postColumns + " FROM blog_posts")
	query.WriteString(where.String())

	switch filter.Order {
	case postforge.OldestFirst:
		query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	default:
		query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*postforge.BlogPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost updates an existing post. The template a post was generated
// from cannot change.
func (s *PostService) UpdatePost(ctx context.Context, id string, upd postforge.PostUpdate) (*postforge.BlogPost, error) {
	post, err := s.FindPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.TemplateID != nil && *upd.TemplateID != post.TemplateID {
		return nil, postforge.Errorf(postforge.EINVALIDOP, "cannot change template of post %q", id)
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Body != nil {
		post.Body = *upd.Body
	}
	if upd.Sections != nil {
		post.Sections = upd.Sections
	}
	if upd.TemplateVersion != nil {
		post.TemplateVersion = *upd.TemplateVersion
	}
	if upd.Status != nil {
		post.Status = *upd.Status
	}
	if upd.Tags != nil {
		post.Tags = *upd.Tags
	}
	if upd.Metadata != nil {
		post.Metadata = upd.Metadata
	}

	prepare(post)
	if err := post.Validate(); err != nil {
		return nil, err
	}

	sections, tags, metadata, err := encodePost(post)
	if err != nil {
		return nil, err
	}

	post.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = ?, body = ?, sections = ?, template_version = ?, status = ?, tags = ?, metadata = ?,
			word_count = ?, reading_time = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, post.Title, post.Body, sections, post.TemplateVersion, string(post.Status), tags, metadata,
		post.WordCount, post.ReadingTime, post.ContentHash, formatTime(post.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return post, nil
}
