package readability_test

import (
	"testing"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, postforge.EINVALID, postforge.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body><article><p>Content</p></article></body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "Page Title", result.Title)
}

func TestExtractor_ExtractsMetadata(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head>
<title>Release Notes</title>
<meta name="author" content="Sam Lee">
<meta property="og:site_name" content="Example News">
<meta name="description" content="What changed in this release.">
<meta property="article:published_time" content="2024-06-01T08:30:00Z">
</head>
<body><article><p>This release focuses on startup time and memory use across every platform we support.</p></article></body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", result.Author)
	assert.Equal(t, "Example News", result.SiteName)
	assert.Equal(t, "What changed in this release.", result.Description)
	require.NotNil(t, result.PublishedAt)
	assert.Equal(t, 2024, result.PublishedAt.Year())
}

func TestExtractor_RemovesNavigation(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article><p>This is the main article content that should be preserved in the output.</p></article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "main article content")
	assert.NotContains(t, result.ContentHTML, "Home Nav Link")
}

func TestExtractor_PreservesCodeBlocks(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<p>Install the tool and run it against your project directory to get started quickly.</p>
<pre><code>go install example.com/tool@latest</code></pre>
</article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "go install example.com/tool@latest")
}
