package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPost() *postforge.BlogPost {
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return &postforge.BlogPost{
		ID:              "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		SourceURL:       "https://example.com/a",
		Title:           "Why Channels: A Primer",
		Body:            "# Why Channels: A Primer\n\n## Overview\n\nText.",
		TemplateID:      "default",
		TemplateVersion: 2,
		Status:          postforge.PostPublished,
		Tags:            []string{"go", "concurrency"},
		WordCount:       6,
		ReadingTime:     1,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func TestPostPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2024-03-05-why-channels-a-primer-1b4e28ba.md", fs.PostPath(testPost()))

	untitled := testPost()
	untitled.Title = "???"
	assert.Equal(t, "2024-03-05-post-1b4e28ba.md", fs.PostPath(untitled))
}

func TestFormatPost(t *testing.T) {
	t.Parallel()

	out := fs.FormatPost(testPost())

	assert.Contains(t, out, "---\nid: \"1b4e28ba-2fa1-11d2-883f-0016d3cca427\"\n")
	assert.Contains(t, out, "title: \"Why Channels: A Primer\"\n")
	assert.Contains(t, out, "template_version: 2\n")
	assert.Contains(t, out, "status: published\n")
	assert.Contains(t, out, "tags: [\"go\", \"concurrency\"]\n")
	assert.Contains(t, out, "created: 2024-03-05T10:00:00Z\n")
	assert.Contains(t, out, "---\n\n# Why Channels: A Primer")
}

func TestExporter_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp := fs.NewExporter(dir, "posts")

	require.NoError(t, exp.Save(context.Background(), testPost()))

	_, err := os.Stat(filepath.Join(dir, "posts.tmp", "2024-03-05-why-channels-a-primer-1b4e28ba.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "posts"))
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_CommitReplacesFinalDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "posts", "stale.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	exp := fs.NewExporter(dir, "posts")
	require.NoError(t, exp.Save(context.Background(), testPost()))
	require.NoError(t, exp.Commit())

	entries, err := os.ReadDir(filepath.Join(dir, "posts"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-05-why-channels-a-primer-1b4e28ba.md", entries[0].Name())

	_, err = os.Stat(filepath.Join(dir, "posts.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_CommitWithNoPostsCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp := fs.NewExporter(dir, "posts")

	require.NoError(t, exp.Commit())

	entries, err := os.ReadDir(filepath.Join(dir, "posts"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExporter_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp := fs.NewExporter(dir, "posts")
	require.NoError(t, exp.Save(context.Background(), testPost()))

	require.NoError(t, exp.Abort())

	_, err := os.Stat(filepath.Join(dir, "posts.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_RejectsPostWithoutID(t *testing.T) {
	t.Parallel()

	post := testPost()
	post.ID = ""

	err := fs.NewExporter(t.TempDir(), "posts").Save(context.Background(), post)
	assert.Equal(t, postforge.EINVALID, postforge.ErrorCode(err))
}
