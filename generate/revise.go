package generate

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/postforge"
)

var _ postforge.Reviser = (*Reviser)(nil)

// Reviser implements postforge.Reviser.
type Reviser struct {
	Templates postforge.TemplateService
	Model     postforge.TextGenerator
	Agent     postforge.Agent

	// Retry governs model call retries. The zero value means one attempt.
	Retry postforge.RetryPolicy

	// CallTimeout bounds each model call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
}

// ProposeRevision asks the model for new section instructions. Nothing is
// stored.
func (r *Reviser) ProposeRevision(ctx context.Context, tmpl *postforge.Template, feedback string) ([]postforge.TemplateSection, error) {
	timeout := r.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	raw, err := callModel(ctx, r.Model, r.Retry, timeout, r.Agent, BuildRevisionPrompt(r.Agent, tmpl, feedback))
	if err != nil {
		return nil, err
	}
	return ParseRevision(raw, tmpl)
}

// Revise proposes a revision for the template and stores it as the next
// version. A concurrent revision of the same template makes this fail with
// ECONFLICT; an invalid proposal leaves the template untouched.
func (r *Reviser) Revise(ctx context.Context, templateID, feedback string) (*postforge.Template, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, postforge.Errorf(postforge.EINVALID, "feedback required")
	}

	tmpl, err := r.Templates.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	sections, err := r.ProposeRevision(ctx, tmpl, feedback)
	if err != nil {
		return nil, err
	}

	return r.Templates.ReviseTemplate(ctx, tmpl.ID, postforge.TemplateRevision{
		BaseVersion: tmpl.Version,
		Sections:    sections,
		Feedback:    feedback,
	})
}
