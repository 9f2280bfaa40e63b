package mock

import (
	"context"

	"github.com/fwojciec/postforge"
)

var (
	_ postforge.TemplateService = (*TemplateService)(nil)
	_ postforge.Reviser         = (*Reviser)(nil)
)

// TemplateService is a mock implementation of postforge.TemplateService.
type TemplateService struct {
	CreateTemplateFn         func(ctx context.Context, tmpl *postforge.Template) error
	FindTemplateByIDFn       func(ctx context.Context, id string) (*postforge.Template, error)
	FindTemplatesFn          func(ctx context.Context, filter postforge.TemplateFilter) ([]*postforge.Template, error)
	FindTemplateVersionsFn   func(ctx context.Context, id string) ([]*postforge.TemplateVersion, error)
	ReviseTemplateFn         func(ctx context.Context, id string, rev postforge.TemplateRevision) (*postforge.Template, error)
	IncrementTemplateUsageFn func(ctx context.Context, id string) error
	DeleteTemplateFn         func(ctx context.Context, id string) error
}

func (s *TemplateService) CreateTemplate(ctx context.Context, tmpl *postforge.Template) error {
	return s.CreateTemplateFn(ctx, tmpl)
}

func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*postforge.Template, error) {
	return s.FindTemplateByIDFn(ctx, id)
}

func (s *TemplateService) FindTemplates(ctx context.Context, filter postforge.TemplateFilter) ([]*postforge.Template, error) {
	return s.FindTemplatesFn(ctx, filter)
}

func (s *TemplateService) FindTemplateVersions(ctx context.Context, id string) ([]*postforge.TemplateVersion, error) {
	return s.FindTemplateVersionsFn(ctx, id)
}

func (s *TemplateService) ReviseTemplate(ctx context.Context, id string, rev postforge.TemplateRevision) (*postforge.Template, error) {
	return s.ReviseTemplateFn(ctx, id, rev)
}

func (s *TemplateService) IncrementTemplateUsage(ctx context.Context, id string) error {
	return s.IncrementTemplateUsageFn(ctx, id)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.DeleteTemplateFn(ctx, id)
}

// Reviser is a mock implementation of postforge.Reviser.
type Reviser struct {
	ReviseFn func(ctx context.Context, templateID, feedback string) (*postforge.Template, error)
}

func (r *Reviser) Revise(ctx context.Context, templateID, feedback string) (*postforge.Template, error) {
	return r.ReviseFn(ctx, templateID, feedback)
}
