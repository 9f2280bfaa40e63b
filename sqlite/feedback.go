package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ postforge.FeedbackService = (*FeedbackService)(nil)

// FeedbackService implements postforge.FeedbackService using SQLite.
type FeedbackService struct {
	db *DB
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(db *DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// CreateFeedback appends a feedback entry. The target must exist.
func (s *FeedbackService) CreateFeedback(ctx context.Context, f *postforge.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	table := "blog_posts"
	if f.Target == postforge.FeedbackTemplate {
		table = "templates"
	}
	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", f.TargetID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return postforge.Errorf(postforge.ENOTFOUND, "%s %q not found", f.Target, f.TargetID)
	}

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now().UTC()

	var rating sql.NullFloat64
	if f.Rating != nil {
		rating = sql.NullFloat64{Float64: *f.Rating, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO feedback (id, target, target_id, content, rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, f.ID, string(f.Target), f.TargetID, f.Content, rating, formatTime(f.CreatedAt)); err != nil {
		return err
	}

	if f.Target == postforge.FeedbackTemplate && f.Rating != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE templates
			SET feedback_score = (COALESCE(feedback_score, 0) * rating_count + ?) / (rating_count + 1),
				rating_count = rating_count + 1
			WHERE id = ?
		`, *f.Rating, f.TargetID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindFeedback retrieves entries matching the filter, newest first.
func (s *FeedbackService) FindFeedback(ctx context.Context, filter postforge.FeedbackFilter) ([]*postforge.Feedback, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, target, target_id, content, rating, created_at FROM feedback WHERE 1=1")

	if filter.Target != nil {
		query.WriteString(" AND target = ?")
		args = append(args, string(*filter.Target))
	}
	if filter.TargetID != nil {
		query.WriteString(" AND target_id = ?")
		args = append(args, *filter.TargetID)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*postforge.Feedback
	for rows.Next() {
		var f postforge.Feedback
		var rating sql.NullFloat64
		var createdAt string

		if err := rows.Scan(&f.ID, &f.Target, &f.TargetID, &f.Content, &rating, &createdAt); err != nil {
			return nil, err
		}
		if rating.Valid {
			f.Rating = &rating.Float64
		}
		if f.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		entries = append(entries, &f)
	}
	return entries, rows.Err()
}
