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
var _ postforge.TemplateService = (*TemplateService)(nil)

// TemplateService implements postforge.TemplateService using SQLite.
type TemplateService struct {
	db *DB
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *DB) *TemplateService {
	return &TemplateService{db: db}
}

const templateColumns = `id, name, description, sections, version, usage_count, feedback_score, rating_count, created_at, updated_at`

func scanTemplate(row scanner) (*postforge.Template, error) {
	var tmpl postforge.Template
	var sections, createdAt, updatedAt string
	var score sql.NullFloat64

	if err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &sections, &tmpl.Version,
		&tmpl.UsageCount, &score, &tmpl.RatingCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := decodeJSON(sections, "sections", &tmpl.Sections); err != nil {
		return nil, err
	}
	if score.Valid {
		tmpl.FeedbackScore = &score.Float64
	}

	var err error
	if tmpl.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if tmpl.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// CreateTemplate creates a new template at version 1 and records the
// initial version in the history.
func (s *TemplateService) CreateTemplate(ctx context.Context, tmpl *postforge.Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := createTemplate(ctx, tx, tmpl); err != nil {
		return err
	}
	return tx.Commit()
}

func createTemplate(ctx context.Context, tx *sql.Tx, tmpl *postforge.Template) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}

	var exists int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates WHERE id = ?", tmpl.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return postforge.Errorf(postforge.ECONFLICT, "template %q already exists", tmpl.ID)
	}

	sections, err := encodeJSON(tmpl.Sections)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tmpl.Version = 1
	tmpl.UsageCount = 0
	tmpl.FeedbackScore = nil
	tmpl.RatingCount = 0
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO templates (id, name, description, sections, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, tmpl.ID, tmpl.Name, tmpl.Description, sections, tmpl.Version,
		formatTime(tmpl.CreatedAt), formatTime(tmpl.UpdatedAt)); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO template_versions (template_id, version, sections, feedback, created_at)
		VALUES (?, ?, ?, '', ?)
	`, tmpl.ID, tmpl.Version, sections, formatTime(now))
	return err
}

// SeedTemplates creates the given templates when the store holds none.
// It returns the number of templates created.
func (s *TemplateService) SeedTemplates(ctx context.Context, tmpls []*postforge.Template) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, tmpl := range tmpls {
		if err := tmpl.Validate(); err != nil {
			return 0, err
		}
		if err := createTemplate(ctx, tx, tmpl); err != nil {
			return 0, err
		}
	}
	return len(tmpls), tx.Commit()
}

// FindTemplateByID retrieves a template by ID.
func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*postforge.Template, error) {
	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM templates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postforge.Errorf(postforge.ENOTFOUND, "template %q not found", id)
	}
	return tmpl, err
}

// FindTemplates retrieves templates matching the filter, ordered by name.
func (s *TemplateService) FindTemplates(ctx context.Context, filter postforge.TemplateFilter) ([]*postforge.Template, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + templateColumns + " FROM templates WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name ASC, id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tmpls []*postforge.Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		tmpls = append(tmpls, tmpl)
	}
	return tmpls, rows.Err()
}

// FindTemplateVersions returns the version history, oldest first.
func (s *TemplateService) FindTemplateVersions(ctx context.Context, id string) ([]*postforge.TemplateVersion, error) {
	if _, err := s.FindTemplateByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT template_id, version, sections, feedback, created_at
		FROM template_versions
		WHERE template_id = ?
		ORDER BY version ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*postforge.TemplateVersion
	for rows.Next() {
		var v postforge.TemplateVersion
		var sections, createdAt string
		if err := rows.Scan(&v.TemplateID, &v.Version, &sections, &v.Feedback, &createdAt); err != nil {
			return nil, err
		}
		if err := decodeJSON(sections, "sections", &v.Sections); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// ReviseTemplate writes rev as the next version. The template row and the
// history row are written in one transaction; the update only applies if
// the stored version still equals rev.BaseVersion.
func (s *TemplateService) ReviseTemplate(ctx context.Context, id string, rev postforge.TemplateRevision) (*postforge.Template, error) {
	if err := postforge.ValidateSections(rev.Sections); err != nil {
		return nil, err
	}
	sections, err := encodeJSON(rev.Sections)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := formatTime(time.Now().UTC())
	result, err := tx.ExecContext(ctx, `
		UPDATE templates
		SET sections = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, sections, now, id, rev.BaseVersion)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var current int
		err := tx.QueryRowContext(ctx, "SELECT version FROM templates WHERE id = ?", id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, postforge.Errorf(postforge.ENOTFOUND, "template %q not found", id)
		} else if err != nil {
			return nil, err
		}
		return nil, postforge.Errorf(postforge.ECONFLICT,
			"template %q was revised concurrently: based on version %d, current is %d", id, rev.BaseVersion, current)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO template_versions (template_id, version, sections, feedback, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, rev.BaseVersion+1, sections, rev.Feedback, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.FindTemplateByID(ctx, id)
}

// IncrementTemplateUsage bumps the usage counter.
func (s *TemplateService) IncrementTemplateUsage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE templates SET usage_count = usage_count + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return postforge.Errorf(postforge.ENOTFOUND, "template %q not found", id)
	}
	return nil
}

// DeleteTemplate removes a template and its version history.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var posts int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM blog_posts WHERE template_id = ?", id).Scan(&posts); err != nil {
		return err
	}
	if posts > 0 {
		return postforge.Errorf(postforge.ECONFLICT, "template %q is used by %d posts", id, posts)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return postforge.Errorf(postforge.ENOTFOUND, "template %q not found", id)
	}

	return tx.Commit()
}
