package http_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/geogate/geogate"
	geohttp "github.com/geogate/geogate/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDelays disables backoff waits while keeping 3 retries (4 attempts).
func noDelays() []time.Duration {
	return []time.Duration{0, 0, 0}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends declared bot identity on first attempt", func(t *testing.T) {
		t.Parallel()

		var firstUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			firstUA.CompareAndSwap(nil, any(r.UserAgent()))
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, geohttp.BotUserAgent, firstUA.Load())
	})

	t.Run("rotates to browser identity on retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		var retryUA atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			retryUA.Store(r.UserAgent())
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.NotEqual(t, geohttp.BotUserAgent, retryUA.Load())
		assert.Contains(t, retryUA.Load(), "Mozilla/5.0")
	})

	t.Run("retries 5xx and succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("retries 429", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte("<html>ok</html>"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("404 fails immediately with zero retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, geogate.ENOTFOUND, geogate.ErrorCode(err))
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("410 fails immediately as permanent client failure", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusGone)
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, geogate.EUNAVAILABLE, geogate.ErrorCode(err))
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("exhausted retries surface EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, geogate.EUNAVAILABLE, geogate.ErrorCode(err))
		assert.Equal(t, int64(4), calls.Load())
	})

	t.Run("non-HTML content type fails without retry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher(geohttp.WithRetryDelays(noDelays()))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, geogate.EINVALID, geogate.ErrorCode(err))
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("non-http scheme rejected before any I/O", func(t *testing.T) {
		t.Parallel()

		fetcher := geohttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "ftp://example.com/file")
		require.Error(t, err)
		assert.Equal(t, geogate.EINVALID, geogate.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := geohttp.NewFetcher()
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, server.URL)
		require.Error(t, err)
	})

	t.Run("network error retried via mock transport", func(t *testing.T) {
		t.Parallel()

		rt := &countingTransport{failUntil: 2}
		fetcher := geohttp.NewFetcher(
			geohttp.WithRetryDelays(noDelays()),
			geohttp.WithTransport(rt),
		)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), "http://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, "<html>mock</html>", html)
		assert.Equal(t, int64(2), rt.calls.Load())
	})
}

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request passes immediately", func(t *testing.T) {
		t.Parallel()

		limiter := geohttp.NewHostLimiter(1.0)
		begin := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.Less(t, time.Since(begin), 100*time.Millisecond)
	})

	t.Run("canceled context aborts the wait", func(t *testing.T) {
		t.Parallel()

		limiter := geohttp.NewHostLimiter(0.001)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})
}

// countingTransport fails the first failUntil-1 calls with a transport
// error, then serves a fixed HTML response.
type countingTransport struct {
	calls     atomic.Int64
	failUntil int64
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.calls.Add(1) < t.failUntil {
		return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	}
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "text/html")
	_, _ = rec.WriteString("<html>mock</html>")
	return rec.Result(), nil
}
