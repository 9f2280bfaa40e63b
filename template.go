package postforge

import (
	"context"
	"regexp"
	"time"
)

// DefaultTemplateID is used when a generate request names no template.
const DefaultTemplateID = "default"

var sectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// TemplateSection is one structural part of a generated post.
// Name is the stable key the model output is keyed by; Title is the
// heading rendered into the post body.
type TemplateSection struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Required    bool   `json:"required"`
}

// Template is a named, versioned skeleton guiding generated post structure.
type Template struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Sections      []TemplateSection `json:"sections"`
	Version       int               `json:"version"`
	UsageCount    int               `json:"usage_count"`
	FeedbackScore *float64          `json:"feedback_score,omitempty"`
	RatingCount   int               `json:"rating_count"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Validate returns an error if the template contains invalid fields.
func (t *Template) Validate() error {
	if t.Name == "" {
		return Errorf(EINVALID, "template name required")
	}
	return ValidateSections(t.Sections)
}

// ValidateSections checks that sections are non-empty, well named and unique.
func ValidateSections(sections []TemplateSection) error {
	if len(sections) == 0 {
		return Errorf(EINVALID, "template requires at least one section")
	}
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		if !sectionNameRe.MatchString(s.Name) {
			return Errorf(EINVALID, "invalid section name %q", s.Name)
		}
		if seen[s.Name] {
			return Errorf(EINVALID, "duplicate section name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Title == "" {
			return Errorf(EINVALID, "section %q title required", s.Name)
		}
		if s.Instruction == "" {
			return Errorf(EINVALID, "section %q instruction required", s.Name)
		}
	}
	return nil
}

// RequiredSections returns the sections generated output must contain.
func (t *Template) RequiredSections() []TemplateSection {
	var out []TemplateSection
	for _, s := range t.Sections {
		if s.Required {
			out = append(out, s)
		}
	}
	return out
}

// SectionNames returns section names in template order.
func (t *Template) SectionNames() []string {
	names := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		names[i] = s.Name
	}
	return names
}

// TemplateVersion is an immutable snapshot of a template's sections.
type TemplateVersion struct {
	TemplateID string            `json:"template_id"`
	Version    int               `json:"version"`
	Sections   []TemplateSection `json:"sections"`
	Feedback   string            `json:"feedback,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TemplateRevision describes a new template version. BaseVersion is the
// version the revision was derived from and must still be current when the
// revision is written.
type TemplateRevision struct {
	BaseVersion int
	Sections    []TemplateSection
	Feedback    string
}

// TemplateService represents a service for managing templates.
type TemplateService interface {
	// CreateTemplate creates a new template at version 1.
	// Generates an ID if none is set. Returns ECONFLICT if the ID is taken.
	CreateTemplate(ctx context.Context, tmpl *Template) error

	// FindTemplateByID retrieves a template by ID.
	// Returns ENOTFOUND if template does not exist.
	FindTemplateByID(ctx context.Context, id string) (*Template, error)

	// FindTemplates retrieves templates matching the filter.
	FindTemplates(ctx context.Context, filter TemplateFilter) ([]*Template, error)

	// FindTemplateVersions returns the version history, oldest first.
	// Returns ENOTFOUND if template does not exist.
	FindTemplateVersions(ctx context.Context, id string) ([]*TemplateVersion, error)

	// ReviseTemplate atomically writes a new version.
	// Returns ENOTFOUND if template does not exist and ECONFLICT if the
	// stored version no longer matches rev.BaseVersion.
	ReviseTemplate(ctx context.Context, id string, rev TemplateRevision) (*Template, error)

	// IncrementTemplateUsage bumps the usage counter.
	IncrementTemplateUsage(ctx context.Context, id string) error

	// DeleteTemplate removes a template and its history.
	// Returns ECONFLICT while any post references it.
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplateFilter represents a filter for FindTemplates.
type TemplateFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Reviser rewrites templates from free-text feedback.
type Reviser interface {
	// Revise proposes new section instructions for feedback and stores
	// them as the next template version.
	Revise(ctx context.Context, templateID, feedback string) (*Template, error)
}

// DefaultTemplates returns the templates seeded into an empty store.
func DefaultTemplates() []*Template {
	return []*Template{
		{
			ID:          DefaultTemplateID,
			Name:        "Default Blog Post",
			Description: "Overview, details and a conclusion.",
			Sections: []TemplateSection{
				{Name: "overview", Title: "Overview", Instruction: "Introduce the topic and why it matters in one or two paragraphs.", Required: true},
				{Name: "details", Title: "Details", Instruction: "Explain the main ideas of the source with concrete examples.", Required: true},
				{Name: "conclusion", Title: "Conclusion", Instruction: "Summarize the takeaways and suggest a next step for the reader.", Required: true},
			},
		},
		{
			ID:          "listicle",
			Name:        "Listicle",
			Description: "Short intro followed by a numbered list of key points.",
			Sections: []TemplateSection{
				{Name: "intro", Title: "Introduction", Instruction: "Hook the reader in two or three sentences.", Required: true},
				{Name: "key_points", Title: "Key Points", Instruction: "List five to seven key points as a markdown list, one sentence each.", Required: true},
				{Name: "takeaway", Title: "Takeaway", Instruction: "Close with a single memorable takeaway.", Required: false},
			},
		},
		{
			ID:          "tutorial",
			Name:        "Tutorial",
			Description: "Step-by-step guide derived from the source.",
			Sections: []TemplateSection{
				{Name: "summary", Title: "What You Will Learn", Instruction: "State the goal of the tutorial.", Required: true},
				{Name: "prerequisites", Title: "Prerequisites", Instruction: "List what the reader needs before starting.", Required: false},
				{Name: "steps", Title: "Steps", Instruction: "Walk through the process as numbered steps with short explanations.", Required: true},
				{Name: "wrap_up", Title: "Wrapping Up", Instruction: "Recap what was built and where to go next.", Required: true},
			},
		},
	}
}
