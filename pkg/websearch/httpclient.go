package websearch

import (
	"net/http"
	"sync"
	"time"
)

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedHTTPClient wraps an HTTPClient and enforces a minimum
// interval between requests. Search engines throttle aggressively, so
// batch lookups must pace themselves.
type RateLimitedHTTPClient struct {
	underlying      HTTPClient
	requestInterval time.Duration
	lastRequest     time.Time
	mu              sync.Mutex
}

// NewRateLimitedHTTPClient creates a rate-limited HTTP client. The first
// request goes out immediately.
func NewRateLimitedHTTPClient(underlying HTTPClient, requestInterval time.Duration) *RateLimitedHTTPClient {
	return &RateLimitedHTTPClient{
		underlying:      underlying,
		requestInterval: requestInterval,
	}
}

// Do executes an HTTP request, waiting for the rate limiter before sending.
func (rateLimitedClient *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	rateLimitedClient.mu.Lock()

	if !rateLimitedClient.lastRequest.IsZero() {
		if wait := rateLimitedClient.requestInterval - time.Since(rateLimitedClient.lastRequest); wait > 0 {
			rateLimitedClient.mu.Unlock()
			time.Sleep(wait)
			rateLimitedClient.mu.Lock()
		}
	}

	rateLimitedClient.lastRequest = time.Now()
	rateLimitedClient.mu.Unlock()

	return rateLimitedClient.underlying.Do(req)
}
