// Package http provides the HTTP implementation of geogate.Fetcher with
// retry, per-attempt timeouts, and user-agent rotation.
package http

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/geogate/geogate"
)

// BotUserAgent is the declared identity sent on the first attempt.
// Servers that block declared bots trigger a retry with a browser-like
// identity from the rotation pool.
const BotUserAgent = "GEOGateBot/1.0 (+https://geogate.dev/bot)"

// browserUserAgents is the rotation pool used on retry attempts.
var browserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

const (
	// baseAttemptTimeout is the timeout of attempt 0; each subsequent
	// attempt gets attemptTimeoutStep more.
	baseAttemptTimeout = 10 * time.Second
	attemptTimeoutStep = 2 * time.Second
)

// DefaultRetryDelays returns the backoff delays between fetch attempts:
// 1s, 2s, 4s (up to 3 retries, 4 attempts total).
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Fetcher implements geogate.Fetcher at compile time.
var _ geogate.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML from URLs over plain HTTP. Retries are attempted
// for 5xx, 429, and 403 responses and for timeout/network errors; 404 and
// other 4xx responses are permanent client-side failures and fail
// immediately.
type Fetcher struct {
	client  *http.Client
	delays  []time.Duration
	limiter *HostLimiter
	pick    func(n int) int // index into browserUserAgents
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRetryDelays overrides the backoff delays between attempts. Useful
// for testing without waiting for real delays. An empty slice disables
// retries entirely.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithHostLimiter applies an outbound per-host politeness limiter.
func WithHostLimiter(l *HostLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithTransport overrides the underlying round tripper. Useful for
// testing with a mock transport that asserts call counts.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		// Per-attempt timeouts come from the request context, not the
		// client, so they can grow with the attempt index.
		client: &http.Client{},
		delays: DefaultRetryDelays(),
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML document at rawURL, retrying transient
// failures with exponential backoff and a rotating identity.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", geogate.Errorf(geogate.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", geogate.Errorf(geogate.EINVALID, "unsupported protocol %q: only http and https can be fetched", u.Scheme)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	maxAttempts := len(f.delays) + 1
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(f.delays[attempt-1]):
			}
		}

		html, retryable, err := f.attempt(ctx, rawURL, attempt)
		if err == nil {
			return html, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}

	return "", geogate.WrapErrorf(lastErr, geogate.EUNAVAILABLE, "fetch failed after %d attempts: %v", maxAttempts, lastErr)
}

// attempt performs a single fetch attempt. The bool reports whether the
// failure is retryable.
func (f *Fetcher) attempt(ctx context.Context, rawURL string, attempt int) (string, bool, error) {
	timeout := baseAttemptTimeout + time.Duration(attempt)*attemptTimeoutStep
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, geogate.Errorf(geogate.EINVALID, "invalid request for %q: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent(attempt))
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		// Timeouts and transport errors are retryable.
		return "", true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden:
		return "", true, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	case resp.StatusCode == http.StatusNotFound:
		return "", false, geogate.Errorf(geogate.ENOTFOUND, "HTTP 404 for %s", rawURL)
	case resp.StatusCode >= 400:
		return "", false, geogate.Errorf(geogate.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return "", false, geogate.Errorf(geogate.EINVALID, "unsupported content type %q for %s", ct, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	return string(body), false, nil
}

// userAgent returns the identity for an attempt: the declared bot
// identity first, then a random browser identity from the pool.
func (f *Fetcher) userAgent(attempt int) string {
	if attempt == 0 {
		return BotUserAgent
	}
	return browserUserAgents[f.pick(len(browserUserAgents))]
}

// isHTMLContentType reports whether a Content-Type header value denotes
// an HTML document.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
