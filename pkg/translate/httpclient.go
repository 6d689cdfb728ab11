package translate

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
// interval between requests, so bursts of roster lookups do not hammer
// the public translation endpoint.
type RateLimitedHTTPClient struct {
	underlying      HTTPClient
	requestInterval time.Duration
	lastRequest     time.Time
	mu              sync.Mutex
}

// NewRateLimitedHTTPClient creates a rate-limited HTTP client that enforces
// the given minimum interval between requests. The first request is not
// delayed.
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
		elapsed := time.Since(rateLimitedClient.lastRequest)
		if elapsed < rateLimitedClient.requestInterval {
			waitTime := rateLimitedClient.requestInterval - elapsed
			rateLimitedClient.mu.Unlock()
			time.Sleep(waitTime)
			rateLimitedClient.mu.Lock()
		}
	}

	rateLimitedClient.lastRequest = time.Now()
	rateLimitedClient.mu.Unlock()

	return rateLimitedClient.underlying.Do(req)
}
