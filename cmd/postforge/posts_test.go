package main_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	main "github.com/fwojciec/postforge/cmd/postforge"
	"github.com/fwojciec/postforge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists posts with filters", func(t *testing.T) {
		t.Parallel()

		var got postforge.PostFilter
		deps, stdout, _ := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(_ context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
				got = filter
				return []*postforge.BlogPost{{
					ID:        "post-1",
					Title:     "Why Go",
					Status:    postforge.PostDraft,
					Tags:      []string{"go", "tools"},
					CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
				}}, 3, nil
			},
		}

		cmd := &main.PostsCmd{Status: "draft", Tag: "go", Query: "why", Limit: 1}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, got.Status)
		assert.Equal(t, postforge.PostDraft, *got.Status)
		require.NotNil(t, got.Tag)
		assert.Equal(t, "go", *got.Tag)
		require.NotNil(t, got.Query)
		assert.Equal(t, "why", *got.Query)
		assert.Equal(t, 1, got.Limit)

		out := stdout.String()
		assert.Contains(t, out, "post-1  2026-03-01  draft")
		assert.Contains(t, out, "Why Go  [go, tools]")
		assert.Contains(t, out, "(1 of 3 posts)")
	})

	t.Run("empty filters stay nil", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(_ context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
				assert.Nil(t, filter.Status)
				assert.Nil(t, filter.Tag)
				assert.Nil(t, filter.Query)
				return nil, 0, nil
			},
		}

		require.NoError(t, (&main.PostsCmd{Limit: 20}).Run(deps))
		assert.Contains(t, stdout.String(), "No posts found")
	})

	t.Run("prints store errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(_ context.Context, _ postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
				return nil, 0, errors.New("disk I/O error")
			},
		}

		require.Error(t, (&main.PostsCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error: Internal error.")
	})
}
