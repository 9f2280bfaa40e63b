package postforge

import (
	"context"
	"time"
)

// FeedbackTarget names what a feedback entry refers to.
type FeedbackTarget string

// FeedbackTarget constants.
const (
	FeedbackPost     FeedbackTarget = "post"
	FeedbackTemplate FeedbackTarget = "template"
)

// Feedback is an append-only record of user feedback.
type Feedback struct {
	ID        string         `json:"id"`
	Target    FeedbackTarget `json:"target"`
	TargetID  string         `json:"target_id"`
	Content   string         `json:"content"`
	Rating    *float64       `json:"rating,omitempty"` // 1-10
	CreatedAt time.Time      `json:"created_at"`
}

// Validate returns an error if the feedback contains invalid fields.
func (f *Feedback) Validate() error {
	if f.Target != FeedbackPost && f.Target != FeedbackTemplate {
		return Errorf(EINVALID, "invalid feedback target %q", f.Target)
	}
	if f.TargetID == "" {
		return Errorf(EINVALID, "feedback target ID required")
	}
	if f.Content == "" {
		return Errorf(EINVALID, "feedback content required")
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 10) {
		return Errorf(EINVALID, "feedback rating must be between 1 and 10")
	}
	return nil
}

// FeedbackService represents the feedback log.
type FeedbackService interface {
	// CreateFeedback appends an entry. A rating on template feedback is
	// folded into the template's average score in the same write.
	CreateFeedback(ctx context.Context, f *Feedback) error

	// FindFeedback retrieves entries matching the filter, newest first.
	FindFeedback(ctx context.Context, filter FeedbackFilter) ([]*Feedback, error)
}

// FeedbackFilter represents a filter for FindFeedback.
type FeedbackFilter struct {
	Target   *FeedbackTarget `json:"target"`
	TargetID *string         `json:"target_id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
