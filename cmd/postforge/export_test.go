package main_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	main "github.com/fwojciec/postforge/cmd/postforge"
	"github.com/fwojciec/postforge/fs"
	"github.com/fwojciec/postforge/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedPosts serves n posts through FindPostsFn honoring offset and limit.
func pagedPosts(n int) *mock.PostService {
	posts := make([]*postforge.BlogPost, n)
	for i := range posts {
		posts[i] = &postforge.BlogPost{
			ID:        fmt.Sprintf("%08d-post", i),
			Title:     fmt.Sprintf("Post %d", i),
			Body:      "Body.",
			CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		}
	}
	return &mock.PostService{
		FindPostsFn: func(_ context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
			start := min(filter.Offset, n)
			end := min(start+filter.Limit, n)
			return posts[start:end], n, nil
		},
	}
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves every page then commits", func(t *testing.T) {
		t.Parallel()

		var saved []string
		committed := false
		deps, stdout, _ := newDeps()
		deps.Posts = pagedPosts(250)
		deps.Exporter = &mock.PostExporter{
			SaveFn: func(_ context.Context, p *postforge.BlogPost) error {
				saved = append(saved, p.ID)
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
		}

		require.NoError(t, (&main.ExportCmd{Dir: "out"}).Run(deps))

		assert.Len(t, saved, 250)
		assert.True(t, committed)
		assert.Contains(t, stdout.String(), "Exported 250 posts to out")
	})

	t.Run("aborts when a save fails", func(t *testing.T) {
		t.Parallel()

		aborted := false
		deps, _, stderr := newDeps()
		deps.Posts = pagedPosts(3)
		deps.Exporter = &mock.PostExporter{
			SaveFn: func(_ context.Context, _ *postforge.BlogPost) error {
				return postforge.Errorf(postforge.EINVALID, "post ID required")
			},
			CommitFn: func() error {
				t.Fatal("commit must not be called")
				return nil
			},
			AbortFn: func() error {
				aborted = true
				return nil
			},
		}

		err := (&main.ExportCmd{Dir: "out"}).Run(deps)

		require.Error(t, err)
		assert.True(t, aborted)
		assert.Contains(t, stderr.String(), "post ID required")
	})

	t.Run("passes the status filter", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Posts = &mock.PostService{
			FindPostsFn: func(_ context.Context, filter postforge.PostFilter) ([]*postforge.BlogPost, int, error) {
				require.NotNil(t, filter.Status)
				assert.Equal(t, postforge.PostPublished, *filter.Status)
				assert.Equal(t, postforge.OldestFirst, filter.Order)
				return nil, 0, nil
			},
		}
		deps.Exporter = &mock.PostExporter{CommitFn: func() error { return nil }}

		require.NoError(t, (&main.ExportCmd{Dir: "out", Status: "published"}).Run(deps))
	})

	t.Run("writes files with the fs exporter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, _, _ := newDeps()
		deps.Posts = pagedPosts(2)
		deps.Exporter = fs.NewExporter(dir, "posts")

		require.NoError(t, (&main.ExportCmd{Dir: dir, Name: "posts"}).Run(deps))

		entries, err := os.ReadDir(filepath.Join(dir, "posts"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		_, err = os.Stat(filepath.Join(dir, "posts.tmp"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
