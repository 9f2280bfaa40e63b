package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/postforge"
	"github.com/fwojciec/postforge/mock"
	pfslog "github.com/fwojciec/postforge/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingGenerator(t *testing.T) {
	t.Parallel()

	t.Run("logs generated post", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Generator{
			GenerateFn: func(ctx context.Context, req postforge.GenerateRequest) (*postforge.BlogPost, error) {
				return &postforge.BlogPost{ID: "p1", WordCount: 420}, nil
			},
		}

		post, err := pfslog.NewLoggingGenerator(inner, logger).Generate(context.Background(),
			postforge.GenerateRequest{URL: "https://example.com/a", TemplateID: "default"})

		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		output := buf.String()
		assert.Contains(t, output, "generate post")
		assert.Contains(t, output, "id=p1")
		assert.Contains(t, output, "words=420")
		assert.Contains(t, output, "template=default")
	})

	t.Run("logs failing stage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Generator{
			ImproveFn: func(ctx context.Context, postID, feedback string) (*postforge.BlogPost, error) {
				return nil, postforge.WithStage(postforge.Errorf(postforge.EVALIDATION, "bad"), postforge.StageGeneratedRaw)
			},
		}

		_, err := pfslog.NewLoggingGenerator(inner, logger).Improve(context.Background(), "p1", "shorter")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "improve post")
		assert.Contains(t, output, "post=p1")
		assert.Contains(t, output, "stage=generated_raw")
	})
}

func TestStageLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fn := pfslog.StageLogger(logger)

	fn(postforge.StageEvent{URL: "https://example.com/a", Stage: postforge.StageExtracting})
	fn(postforge.StageEvent{URL: "https://example.com/a", Stage: postforge.StageErrored, Err: errors.New("boom")})

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "stage=extracting")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "err=boom")
}
