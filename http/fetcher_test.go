package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/postforge"
	pfhttp "github.com/fwojciec/postforge/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ postforge.Fetcher = (*pfhttp.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("User-Agent"), "postforge")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := pfhttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("client timeout is ETIMEOUT", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := pfhttp.NewFetcher(pfhttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		assert.Equal(t, postforge.ETIMEOUT, postforge.ErrorCode(err))
		assert.False(t, postforge.IsTemporary(err))
	})

	t.Run("context deadline is ETIMEOUT", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := pfhttp.NewFetcher().Fetch(ctx, server.URL)
		assert.Equal(t, postforge.ETIMEOUT, postforge.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pfhttp.NewFetcher().Fetch(ctx, server.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown host is a permanent fetch error", func(t *testing.T) {
		t.Parallel()

		fetcher := pfhttp.NewFetcher(pfhttp.WithTimeout(2 * time.Second))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		assert.Equal(t, postforge.EFETCH, postforge.ErrorCode(err))
	})

	t.Run("4xx is a permanent fetch error carrying the status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := pfhttp.NewFetcher().Fetch(context.Background(), server.URL)
		assert.Equal(t, postforge.EFETCH, postforge.ErrorCode(err))
		assert.False(t, postforge.IsTemporary(err))
		assert.Contains(t, postforge.ErrorMessage(err), "404")
	})

	t.Run("5xx and 429 are temporary", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			_, err := pfhttp.NewFetcher().Fetch(context.Background(), server.URL)
			server.Close()

			assert.Equal(t, postforge.EFETCH, postforge.ErrorCode(err))
			assert.True(t, postforge.IsTemporary(err), "status %d", status)
		}
	})

	t.Run("non-HTML content is an extraction error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		_, err := pfhttp.NewFetcher().Fetch(context.Background(), server.URL)
		assert.Equal(t, postforge.EEXTRACTION, postforge.ErrorCode(err))
	})

	t.Run("limits body size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		html, err := pfhttp.NewFetcher(pfhttp.WithMaxBodySize(10)).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, html, 10)
	})
}
