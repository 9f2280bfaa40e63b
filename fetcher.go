package postforge

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch returns the page HTML. Failures to reach the page or non-2xx
	// responses are EFETCH errors, marked temporary when a retry may help.
	// Deadline expiry is reported as ETIMEOUT.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// HostLimiter provides per-host rate limiting of outbound requests.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to host.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context, host string) error
}
