//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerator_Integration_ReturnsJSON(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	gen := gemini.NewGenerator(client, "")

	text, err := gen.GenerateText(ctx, postforge.Prompt{
		System: "Reply with a single JSON object.",
		User:   `Return {"title": "<a title about HTMX>"}.`,
	}, postforge.GenerateOptions{JSON: true})

	require.NoError(t, err)
	assert.Contains(t, text, "title")
}
