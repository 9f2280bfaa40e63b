package mock

import (
	"context"

	"github.com/fwojciec/postforge"
)

var _ postforge.FeedbackService = (*FeedbackService)(nil)

// FeedbackService is a mock implementation of postforge.FeedbackService.
type FeedbackService struct {
	CreateFeedbackFn func(ctx context.Context, f *postforge.Feedback) error
	FindFeedbackFn   func(ctx context.Context, filter postforge.FeedbackFilter) ([]*postforge.Feedback, error)
}

func (s *FeedbackService) CreateFeedback(ctx context.Context, f *postforge.Feedback) error {
	return s.CreateFeedbackFn(ctx, f)
}

func (s *FeedbackService) FindFeedback(ctx context.Context, filter postforge.FeedbackFilter) ([]*postforge.Feedback, error) {
	return s.FindFeedbackFn(ctx, filter)
}
