// Package translate resolves English text to Hindi through the public
// Google web translation endpoint, with an LLM-backed translator for the
// names the web endpoint garbles.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public web translation endpoint.
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// DefaultUserAgent is the default User-Agent header sent with requests.
const DefaultUserAgent = "shuddhi-translate/1.0"

// DefaultRequestInterval is the default minimum interval between requests.
const DefaultRequestInterval = 1 * time.Second

// ServiceError reports a failure of the translation service itself, as
// distinct from a transport error: a non-200 status, a response in an
// unexpected shape, or an empty translation.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("translation service: status %d: %s", e.StatusCode, e.Message)
}

// Config holds configuration for a Client.
type Config struct {
	// Endpoint is the translation URL. Default: DefaultEndpoint.
	Endpoint string

	// RateLimit is the minimum interval between HTTP requests.
	// Default: 1 second.
	RateLimit time.Duration

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, http.DefaultClient is used (wrapped with rate limiting).
	HTTPClient HTTPClient

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		RateLimit: DefaultRequestInterval,
		UserAgent: DefaultUserAgent,
	}
}

// Client calls the web translation endpoint.
type Client struct {
	httpClient HTTPClient
	endpoint   string
	userAgent  string
}

// NewClient creates a Client with the given configuration. If
// config.HTTPClient is nil, http.DefaultClient is used and wrapped with
// rate limiting.
func NewClient(config Config) *Client {
	underlying := config.HTTPClient
	if underlying == nil {
		underlying = http.DefaultClient
	}

	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRequestInterval
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(underlying, rateLimit),
		endpoint:   endpoint,
		userAgent:  userAgent,
	}
}

// Translate converts text from the source to the target language, both
// given as ISO 639-1 codes. Blank input returns empty output without a
// network call.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", &ServiceError{StatusCode: response.StatusCode, Message: http.StatusText(response.StatusCode)}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}

	return decodeTranslation(body)
}

// TranslateToHindi translates English text to Hindi, the roster's common
// case.
func (c *Client) TranslateToHindi(ctx context.Context, text string) (string, error) {
	return c.Translate(ctx, text, "en", "hi")
}

// decodeTranslation pulls the translated text out of the endpoint's
// nested-array envelope: [[["<translated>","<original>",...],...],...].
// Long inputs come back split across several segments; the translated
// parts concatenate in order.
func decodeTranslation(body []byte) (string, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope) == 0 {
		return "", &ServiceError{StatusCode: http.StatusOK, Message: "unexpected response shape"}
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(envelope[0], &segments); err != nil {
		return "", &ServiceError{StatusCode: http.StatusOK, Message: "unexpected response shape"}
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			continue
		}
		builder.WriteString(part)
	}

	translated := builder.String()
	if translated == "" {
		return "", &ServiceError{StatusCode: http.StatusOK, Message: "empty translation"}
	}
	return translated, nil
}
