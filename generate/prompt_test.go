package generate_test

import (
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/generate"
	"github.com/stretchr/testify/assert"
)

func TestBuildPostPrompt(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	article := &postforge.Article{
		URL:         "https://example.com/a",
		Title:       "Source Title",
		Author:      "Jane",
		PublishedAt: &published,
		BodyText:    "Article body.",
		Keywords:    []string{"go", "testing"},
	}
	agent := postforge.DefaultAgents("").Writer

	p := generate.BuildPostPrompt(agent, listicle(), article, "Use a casual tone.")

	assert.Contains(t, p.System, "You are the Content Generator.")
	assert.Contains(t, p.User, `"intro" (required, heading "Introduction"): Hook the reader.`)
	assert.Contains(t, p.User, `"takeaway" (optional`)
	assert.Contains(t, p.User, "tagged: go, testing")
	assert.Contains(t, p.User, "Use a casual tone.")
	assert.Contains(t, p.User, "Published: 2024-03-05")
	assert.Contains(t, p.User, "Article body.")
}

func TestBuildImprovePrompt(t *testing.T) {
	t.Parallel()

	post := &postforge.BlogPost{Body: "# Old\n\n## Introduction\n\nOld text."}
	p := generate.BuildImprovePrompt(postforge.DefaultAgents("").Editor, listicle(), post, "More examples")

	assert.Contains(t, p.System, "Content Editor")
	assert.Contains(t, p.User, "More examples")
	assert.Contains(t, p.User, "Old text.")
}

func TestBuildRevisionPrompt(t *testing.T) {
	t.Parallel()

	p := generate.BuildRevisionPrompt(postforge.DefaultAgents("").TemplateEditor, listicle(), "Make intros shorter")

	assert.Contains(t, p.System, "Template Manager")
	assert.Contains(t, p.User, "Make intros shorter")
	assert.Contains(t, p.User, `"name": "key_points"`)
	assert.Contains(t, p.User, "JSON array")
}
