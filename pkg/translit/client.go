// Package translit converts romanized Indian names to Devanagari through
// the Google input tools endpoint. Transliteration is the fallback when
// translation fails outright: "Ramesh Kumar" has no translation, but it
// has a spelling.
package translit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint is the public input tools request endpoint.
const DefaultEndpoint = "https://inputtools.google.com/request"

// DefaultLanguage is the transliteration target language code.
const DefaultLanguage = "hi"

// DefaultUserAgent is the default User-Agent header sent with requests.
const DefaultUserAgent = "shuddhi-translit/1.0"

// DefaultRequestInterval is the default minimum interval between requests.
const DefaultRequestInterval = 500 * time.Millisecond

// DefaultCandidates is the default number of candidates requested per
// input.
const DefaultCandidates = 5

// statusSuccess is the envelope status for a served request.
const statusSuccess = "SUCCESS"

// ServiceError reports a failure signalled by the endpoint itself: a
// non-200 status, a response in an unexpected shape, or an envelope
// status other than SUCCESS.
type ServiceError struct {
	StatusCode int
	Status     string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("transliteration service: status %d: %s", e.StatusCode, e.Status)
}

// Config holds configuration for a Client.
type Config struct {
	// Endpoint is the input tools URL. Default: DefaultEndpoint.
	Endpoint string

	// Language is the target language code. Default: "hi".
	Language string

	// Candidates is how many candidates to request. Default: 5.
	Candidates int

	// RateLimit is the minimum interval between HTTP requests.
	// Default: 500ms.
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
		Endpoint:   DefaultEndpoint,
		Language:   DefaultLanguage,
		Candidates: DefaultCandidates,
		RateLimit:  DefaultRequestInterval,
		UserAgent:  DefaultUserAgent,
	}
}

// Client calls the input tools transliteration endpoint.
type Client struct {
	httpClient HTTPClient
	endpoint   string
	language   string
	candidates int
	userAgent  string
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

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	language := config.Language
	if language == "" {
		language = DefaultLanguage
	}

	candidates := config.Candidates
	if candidates <= 0 {
		candidates = DefaultCandidates
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(underlying, rateLimit),
		endpoint:   endpoint,
		language:   language,
		candidates: candidates,
		userAgent:  userAgent,
	}
}

// Transliterate returns Devanagari candidates for romanized text, best
// first. Blank input returns no candidates without a network call; an
// input the service cannot render returns an empty list, not an error.
func (c *Client) Transliterate(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("text", text)
	params.Set("itc", c.language+"-t-i0-und")
	params.Set("num", strconv.Itoa(c.candidates))
	params.Set("cp", "0")
	params.Set("cs", "1")
	params.Set("ie", "utf-8")
	params.Set("oe", "utf-8")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transliteration request: %w", err)
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("transliteration request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &ServiceError{StatusCode: response.StatusCode, Status: http.StatusText(response.StatusCode)}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transliteration response: %w", err)
	}

	return decodeCandidates(body)
}

// First returns the top candidate, or empty when the service offers none.
func (c *Client) First(ctx context.Context, text string) (string, error) {
	candidates, err := c.Transliterate(ctx, text)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

// decodeCandidates parses the input tools envelope:
// ["SUCCESS",[["<input>",["<candidate1>","<candidate2>",...],...]]].
func decodeCandidates(body []byte) ([]string, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope) < 2 {
		return nil, &ServiceError{StatusCode: http.StatusOK, Status: "unexpected response shape"}
	}

	var status string
	if err := json.Unmarshal(envelope[0], &status); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusOK, Status: "unexpected response shape"}
	}
	if status != statusSuccess {
		return nil, &ServiceError{StatusCode: http.StatusOK, Status: status}
	}

	var results [][]json.RawMessage
	if err := json.Unmarshal(envelope[1], &results); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusOK, Status: "unexpected response shape"}
	}
	if len(results) == 0 || len(results[0]) < 2 {
		return nil, nil
	}

	var candidates []string
	if err := json.Unmarshal(results[0][1], &candidates); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusOK, Status: "unexpected response shape"}
	}
	return candidates, nil
}
