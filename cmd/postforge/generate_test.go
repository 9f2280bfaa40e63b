package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/postforge"
	main "github.com/fwojciec/postforge/cmd/postforge"
	"github.com/fwojciec/postforge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the stored post", func(t *testing.T) {
		t.Parallel()

		var got postforge.GenerateRequest
		deps, stdout, stderr := newDeps()
		deps.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, req postforge.GenerateRequest) (*postforge.BlogPost, error) {
				got = req
				return &postforge.BlogPost{ID: "post-1", Title: "Hello", Body: "## Overview\n\nText.", WordCount: 250, ReadingTime: 2}, nil
			},
		}

		cmd := &main.GenerateCmd{URL: "https://example.com/a", Template: "listicle", Tags: []string{"go"}, Instructions: "Be brief."}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "https://example.com/a", got.URL)
		assert.Equal(t, "listicle", got.TemplateID)
		assert.Equal(t, []string{"go"}, got.Tags)
		assert.Equal(t, "Be brief.", got.CustomInstructions)
		assert.Contains(t, stdout.String(), "Saved post post-1 (250 words, 2 min read)")
		assert.Contains(t, stdout.String(), "# Hello")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports the failing phase", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.Generator = &mock.Generator{
			GenerateFn: func(_ context.Context, _ postforge.GenerateRequest) (*postforge.BlogPost, error) {
				err := postforge.Errorf(postforge.EFETCH, "page returned 404")
				return nil, postforge.WithStage(err, postforge.StageExtracting)
			},
		}

		cmd := &main.GenerateCmd{URL: "https://example.com/missing"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: page returned 404")
		assert.Contains(t, stderr.String(), "failed during extraction")
		assert.Empty(t, stdout.String())
	})
}

func TestImproveCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes feedback through", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Generator = &mock.Generator{
			ImproveFn: func(_ context.Context, id, feedback string) (*postforge.BlogPost, error) {
				assert.Equal(t, "post-1", id)
				assert.Equal(t, "Shorter intro", feedback)
				return &postforge.BlogPost{ID: id, Title: "Better", Body: "Body"}, nil
			},
		}

		cmd := &main.ImproveCmd{ID: "post-1", Feedback: "Shorter intro"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "# Better")
	})

	t.Run("prints not found", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Generator = &mock.Generator{
			ImproveFn: func(_ context.Context, _, _ string) (*postforge.BlogPost, error) {
				return nil, postforge.Errorf(postforge.ENOTFOUND, "post not found")
			},
		}

		cmd := &main.ImproveCmd{ID: "nope", Feedback: "x"}
		err := cmd.Run(deps)

		assert.Equal(t, postforge.ENOTFOUND, postforge.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: post not found")
	})
}
