package generate_test

import (
	"context"
	"testing"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/generate"
	"github.com/fwojciec/postforge/mock"
	"github.com/fwojciec/postforge/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const revisionReply = `[{"name":"intro","title":"Introduction","instruction":"One sentence hook."},{"name":"key_points","title":"Key Points","instruction":"Seven points."},{"name":"takeaway","title":"Takeaway","instruction":"End with a question."}]`

func replyWith(text string) *mock.TextGenerator {
	return &mock.TextGenerator{
		GenerateTextFn: func(ctx context.Context, prompt postforge.Prompt, opts postforge.GenerateOptions) (string, error) {
			return text, nil
		},
	}
}

func TestReviser_Revise(t *testing.T) {
	t.Parallel()

	t.Run("writes the proposal against the version it was based on", func(t *testing.T) {
		t.Parallel()

		var gotRev postforge.TemplateRevision
		templates := &mock.TemplateService{
			FindTemplateByIDFn: func(ctx context.Context, id string) (*postforge.Template, error) {
				return listicle(), nil
			},
			ReviseTemplateFn: func(ctx context.Context, id string, rev postforge.TemplateRevision) (*postforge.Template, error) {
				gotRev = rev
				tmpl := listicle()
				tmpl.Version = rev.BaseVersion + 1
				tmpl.Sections = rev.Sections
				return tmpl, nil
			},
		}
		r := &generate.Reviser{
			Templates: templates,
			Model:     replyWith(revisionReply),
			Agent:     postforge.DefaultAgents("").TemplateEditor,
		}

		tmpl, err := r.Revise(context.Background(), "listicle", "  Shorter intros  ")

		require.NoError(t, err)
		assert.Equal(t, 4, tmpl.Version)
		assert.Equal(t, 3, gotRev.BaseVersion)
		assert.Equal(t, "Shorter intros", gotRev.Feedback)
		assert.Equal(t, "One sentence hook.", gotRev.Sections[0].Instruction)
		assert.True(t, gotRev.Sections[1].Required)
	})

	t.Run("does not write an invalid proposal", func(t *testing.T) {
		t.Parallel()

		templates := &mock.TemplateService{
			FindTemplateByIDFn: func(ctx context.Context, id string) (*postforge.Template, error) {
				return listicle(), nil
			},
			ReviseTemplateFn: func(ctx context.Context, id string, rev postforge.TemplateRevision) (*postforge.Template, error) {
				t.Fatal("template should not be revised")
				return nil, nil
			},
		}
		r := &generate.Reviser{Templates: templates, Model: replyWith(`[{"name":"intro","instruction":"x"}]`)}

		_, err := r.Revise(context.Background(), "listicle", "feedback")

		assert.Equal(t, postforge.EVALIDATION, postforge.ErrorCode(err))
	})

	t.Run("requires feedback", func(t *testing.T) {
		t.Parallel()

		r := &generate.Reviser{}
		_, err := r.Revise(context.Background(), "listicle", " ")
		assert.Equal(t, postforge.EINVALID, postforge.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown template", func(t *testing.T) {
		t.Parallel()

		templates := &mock.TemplateService{
			FindTemplateByIDFn: func(ctx context.Context, id string) (*postforge.Template, error) {
				return nil, postforge.Errorf(postforge.ENOTFOUND, "template %q not found", id)
			},
		}
		r := &generate.Reviser{Templates: templates, Model: replyWith(revisionReply)}

		_, err := r.Revise(context.Background(), "missing", "x")
		assert.Equal(t, postforge.ENOTFOUND, postforge.ErrorCode(err))
	})
}

func TestReviser_ReviseStoresHistory(t *testing.T) {
	t.Parallel()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	templates := sqlite.NewTemplateService(db)
	ctx := context.Background()
	_, err := templates.SeedTemplates(ctx, postforge.DefaultTemplates())
	require.NoError(t, err)

	r := &generate.Reviser{Templates: templates, Model: replyWith(revisionReply)}

	tmpl, err := r.Revise(ctx, "listicle", "Shorter intros")
	require.NoError(t, err)
	assert.Equal(t, 2, tmpl.Version)

	versions, err := templates.FindTemplateVersions(ctx, "listicle")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "Shorter intros", versions[1].Feedback)
	assert.Equal(t, "One sentence hook.", versions[1].Sections[0].Instruction)

	r.Model = replyWith(`{"sections":[]}`)
	_, err = r.Revise(ctx, "listicle", "Break it")
	assert.Equal(t, postforge.EVALIDATION, postforge.ErrorCode(err))

	current, err := templates.FindTemplateByID(ctx, "listicle")
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version)
}
