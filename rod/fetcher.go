// Package rod fetches JavaScript-rendered pages with a headless Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 15 * time.Second

// DefaultMaxPages is the number of pages rendered before the browser is
// replaced. Chrome's memory baseline grows with every page and never
// returns to its initial level.
const DefaultMaxPages = 75

// Ensure Fetcher implements postforge.Fetcher at compile time.
var _ postforge.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout  time.Duration
	maxPages int64

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.currentBrowser()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", postforge.TemporaryErrorf(postforge.EFETCH, "opening browser page: %v", err)
	}
	defer page.Close()
	defer f.pages.Add(1)

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", navigationError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", navigationError(ctx, url, err)
	}

	if status := responseStatus(page); status != 0 && (status < 200 || status > 299) {
		if status == 429 || status >= 500 {
			return "", postforge.TemporaryErrorf(postforge.EFETCH, "HTTP %d for %s", status, url)
		}
		return "", postforge.Errorf(postforge.EFETCH, "HTTP %d for %s", status, url)
	}

	html, err := page.HTML()
	if err != nil {
		return "", navigationError(ctx, url, err)
	}
	return html, nil
}

// responseStatus reads the main document's HTTP status, or 0 when the
// browser does not expose it.
func responseStatus(page *rod.Page) int {
	res, err := page.Eval(`() => { const e = performance.getEntriesByType('navigation')[0]; return e && e.responseStatus ? e.responseStatus : 0 }`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// navigationError maps browser failures. Name resolution failures are
// permanent; other network errors may succeed on retry.
func navigationError(ctx context.Context, url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return postforge.Errorf(postforge.ETIMEOUT, "timed out loading %s", url)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := err.Error()
	if strings.Contains(msg, "ERR_NAME_NOT_RESOLVED") ||
		strings.Contains(msg, "ERR_CERT_") ||
		strings.Contains(msg, "ERR_SSL_") {
		return postforge.Errorf(postforge.EFETCH, "failed to load %s: %s", url, msg)
	}
	return postforge.TemporaryErrorf(postforge.EFETCH, "failed to load %s: %s", url, msg)
}

// currentBrowser returns the live browser, replacing it first when it has
// rendered maxPages pages. If a replacement cannot be launched the old
// browser stays in service.
func (f *Fetcher) currentBrowser() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed.Load() || f.browser == nil {
		return nil, postforge.Errorf(postforge.EINVALID, "fetcher is closed")
	}

	if f.maxPages > 0 && f.pages.Load() >= f.maxPages {
		oldBrowser, oldLauncher := f.browser, f.launcher
		if err := f.launch(); err == nil {
			_ = oldBrowser.Close()
			oldLauncher.Kill()
			f.pages.Store(0)
		}
	}
	return f.browser, nil
}

// launch starts a new browser and makes it current. Must be called with
// mu held or before the Fetcher is shared.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
