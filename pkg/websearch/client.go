// Package websearch queries the DuckDuckGo HTML interface and extracts
// the visible result text, the raw material facility-name mining works
// over. The HTML frontend needs no API key and serves full result pages
// to plain GET requests.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultEndpoint is the DuckDuckGo HTML search endpoint.
const DefaultEndpoint = "https://duckduckgo.com/html/"

// DefaultUserAgent mimics a desktop browser; the HTML frontend serves
// reduced pages to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultRequestInterval is the default minimum interval between requests.
const DefaultRequestInterval = 1 * time.Second

// DefaultMaxResults caps how many result fragments a search returns.
const DefaultMaxResults = 10

// resultSelector matches result titles and snippets in document order.
const resultSelector = ".result__a, .result__snippet"

// ServiceError reports a non-200 response from the search frontend.
type ServiceError struct {
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("search service: status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Config holds configuration for a Client.
type Config struct {
	// Endpoint is the search URL. Default: DefaultEndpoint.
	Endpoint string

	// RateLimit is the minimum interval between HTTP requests.
	// Default: 1 second.
	RateLimit time.Duration

	// CacheTTL is the time-to-live for cached results. Default: 1 hour.
	CacheTTL time.Duration

	// MaxResults caps returned fragments per query. Default: 10.
	MaxResults int

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, http.DefaultClient is used (wrapped with rate limiting).
	HTTPClient HTTPClient

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		RateLimit:  DefaultRequestInterval,
		CacheTTL:   DefaultCacheTTL,
		MaxResults: DefaultMaxResults,
		UserAgent:  DefaultUserAgent,
	}
}

// Client searches the HTML frontend with rate limiting and caching.
type Client struct {
	httpClient HTTPClient
	cache      *ResultCache
	endpoint   string
	userAgent  string
	maxResults int
}

// NewClient creates a Client with the given configuration.
func NewClient(config Config) *Client {
	underlying := config.HTTPClient
	if underlying == nil {
		underlying = http.DefaultClient
	}

	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRequestInterval
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(underlying, rateLimit),
		cache:      NewResultCache(cacheTTL),
		endpoint:   endpoint,
		userAgent:  userAgent,
		maxResults: maxResults,
	}
}

// Search returns the visible text of result titles and snippets for the
// query, in page order, capped at the configured maximum. Results are
// cached for the configured TTL.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	if cached, found := c.cache.Get(query); found {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", query)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: response.StatusCode}
	}

	document, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []string
	document.Find(resultSelector).EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		if text := strings.TrimSpace(selection.Text()); text != "" {
			results = append(results, text)
		}
		return len(results) < c.maxResults
	})

	c.cache.Set(query, results)
	return results, nil
}

// SearchText joins a query's result fragments into one blob of text for
// extraction.
func (c *Client) SearchText(ctx context.Context, query string) (string, error) {
	results, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return strings.Join(results, " "), nil
}
