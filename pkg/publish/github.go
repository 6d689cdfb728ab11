package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultAPIBaseURL is the GitHub REST API root.
const DefaultAPIBaseURL = "https://api.github.com"

// DefaultBranch is the branch files are committed to when none is
// configured.
const DefaultBranch = "main"

// acceptHeader pins the contents API version.
const acceptHeader = "application/vnd.github.v3+json"

// APIError reports a non-success response from a storage API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storage API: status %d: %s", e.StatusCode, e.Body)
}

// GitHubConfig holds configuration for a GitHubStore.
type GitHubConfig struct {
	// Token authenticates API requests. Required.
	Token string

	// Owner and Repo name the target repository. Required.
	Owner string
	Repo  string

	// Branch is the branch committed to. Default: "main".
	Branch string

	// BaseURL overrides the API root, for GitHub Enterprise installs.
	BaseURL string

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, http.DefaultClient is used.
	HTTPClient HTTPClient
}

// GitHubStore publishes files through the repository contents API. A put
// first fetches the current blob SHA so existing files update instead of
// failing the create.
type GitHubStore struct {
	httpClient HTTPClient
	baseURL    string
	token      string
	owner      string
	repo       string
	branch     string
}

// NewGitHubStore creates a GitHubStore with the given configuration.
func NewGitHubStore(config GitHubConfig) (*GitHubStore, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("GitHub owner and repo are required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	branch := config.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	return &GitHubStore{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      config.Token,
		owner:      config.Owner,
		repo:       config.Repo,
		branch:     branch,
	}, nil
}

// contentsRequest is the PUT payload of the contents API.
type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// Put uploads content to path on the configured branch, with message as
// the commit message. Status 201 means created, 200 means updated; both
// succeed.
func (s *GitHubStore) Put(ctx context.Context, path string, content []byte, message string) error {
	sha, err := s.currentSHA(ctx, path)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  s.branch,
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("failed to encode contents payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentsURL(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	s.setHeaders(request)
	request.Header.Set("Content-Type", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return &APIError{StatusCode: response.StatusCode, Body: readBodyExcerpt(response.Body)}
	}
	return nil
}

// currentSHA fetches the blob SHA of path on the branch. A file that does
// not exist yet yields an empty SHA, not an error.
func (s *GitHubStore) currentSHA(ctx context.Context, path string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentsURL(path)+"?ref="+s.branch, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create contents request: %w", err)
	}
	s.setHeaders(request)

	response, err := s.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("contents request failed: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusNotFound:
		return "", nil
	case http.StatusOK:
		var contents struct {
			SHA string `json:"sha"`
		}
		if err := json.NewDecoder(response.Body).Decode(&contents); err != nil {
			return "", fmt.Errorf("failed to decode contents response: %w", err)
		}
		return contents.SHA, nil
	default:
		return "", &APIError{StatusCode: response.StatusCode, Body: readBodyExcerpt(response.Body)}
	}
}

func (s *GitHubStore) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.baseURL, s.owner, s.repo, strings.TrimPrefix(path, "/"))
}

func (s *GitHubStore) setHeaders(request *http.Request) {
	request.Header.Set("Authorization", "token "+s.token)
	request.Header.Set("Accept", acceptHeader)
}

// readBodyExcerpt returns up to 512 bytes of an error response body for
// diagnostics.
func readBodyExcerpt(body io.Reader) string {
	excerpt, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(excerpt))
}
