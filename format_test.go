package postforge_test

import (
	"testing"

	"github.com/fwojciec/postforge"
	"github.com/stretchr/testify/assert"
)

func TestComposeBody(t *testing.T) {
	t.Parallel()

	sections := []postforge.TemplateSection{
		{Name: "overview", Title: "Overview"},
		{Name: "details", Title: "Details"},
		{Name: "extra", Title: "Extra"},
	}

	t.Run("renders title and sections in template order", func(t *testing.T) {
		t.Parallel()

		body := postforge.ComposeBody("Hello", sections, map[string]string{
			"details":  "D",
			"overview": "O",
		})

		assert.Equal(t, "# Hello\n\n## Overview\n\nO\n\n## Details\n\nD\n", body)
	})

	t.Run("skips blank sections", func(t *testing.T) {
		t.Parallel()

		body := postforge.ComposeBody("Hello", sections, map[string]string{"overview": "O", "extra": "  "})

		assert.NotContains(t, body, "Extra")
	})
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, postforge.CountWords(""))
	assert.Equal(t, 4, postforge.CountWords("## Hello, world! it's"))
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, postforge.ReadingTime(0))
	assert.Equal(t, 1, postforge.ReadingTime(399))
	assert.Equal(t, 3, postforge.ReadingTime(600))
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "web"}, postforge.NormalizeTags([]string{" Go ", "", "WEB", "go"}))
}
