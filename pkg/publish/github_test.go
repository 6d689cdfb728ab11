package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// MockHTTPClient implements HTTPClient for testing.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (mockClient *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return mockClient.DoFunc(req)
}

func githubResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestGitHubStore(t *testing.T, mockClient *MockHTTPClient) *GitHubStore {
	t.Helper()

	store, err := NewGitHubStore(GitHubConfig{
		Token:      "test-token",
		Owner:      "health-data",
		Repo:       "rosters",
		HTTPClient: mockClient,
	})
	if err != nil {
		t.Fatalf("NewGitHubStore failed: %v", err)
	}
	return store
}

func TestNewGitHubStoreValidation(t *testing.T) {
	tests := []struct {
		name   string
		config GitHubConfig
	}{
		{"missing token", GitHubConfig{Owner: "o", Repo: "r"}},
		{"missing owner", GitHubConfig{Token: "t", Repo: "r"}},
		{"missing repo", GitHubConfig{Token: "t", Owner: "o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGitHubStore(tt.config); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestGitHubPutCreatesNewFile(t *testing.T) {
	var requests []*http.Request
	var putBody []byte

	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			requests = append(requests, req)
			switch req.Method {
			case http.MethodGet:
				return githubResponse(http.StatusNotFound, `{"message":"Not Found"}`), nil
			case http.MethodPut:
				putBody, _ = io.ReadAll(req.Body)
				return githubResponse(http.StatusCreated, `{"content":{"sha":"new"}}`), nil
			}
			t.Fatalf("Unexpected method %s", req.Method)
			return nil, nil
		},
	}

	store := newTestGitHubStore(t, mockClient)
	content := []byte("\"lab_name\",\"hindi_name\"\n")

	if err := store.Put(context.Background(), "ui/roster.csv", content, "Clean roster"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("Expected GET then PUT, got %d requests", len(requests))
	}

	get := requests[0]
	wantURL := "https://api.github.com/repos/health-data/rosters/contents/ui/roster.csv?ref=main"
	if get.URL.String() != wantURL {
		t.Errorf("GET URL: expected %s, got %s", wantURL, get.URL.String())
	}
	if auth := get.Header.Get("Authorization"); auth != "token test-token" {
		t.Errorf("Expected token auth, got %q", auth)
	}
	if accept := get.Header.Get("Accept"); accept != acceptHeader {
		t.Errorf("Expected Accept %q, got %q", acceptHeader, accept)
	}

	var payload struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}
	if err := json.Unmarshal(putBody, &payload); err != nil {
		t.Fatalf("Failed to decode PUT body: %v", err)
	}
	if payload.Message != "Clean roster" {
		t.Errorf("Expected commit message, got %q", payload.Message)
	}
	if payload.Branch != "main" {
		t.Errorf("Expected default branch main, got %q", payload.Branch)
	}
	if payload.SHA != "" {
		t.Errorf("Expected no SHA for a new file, got %q", payload.SHA)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload.Content)
	if err != nil {
		t.Fatalf("Content is not valid base64: %v", err)
	}
	if string(decoded) != string(content) {
		t.Errorf("Decoded content mismatch: got %q", decoded)
	}
}

func TestGitHubPutUpdatesExistingFile(t *testing.T) {
	var putBody []byte

	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			switch req.Method {
			case http.MethodGet:
				return githubResponse(http.StatusOK, `{"sha":"abc123","path":"ui/roster.csv"}`), nil
			case http.MethodPut:
				putBody, _ = io.ReadAll(req.Body)
				return githubResponse(http.StatusOK, `{"content":{"sha":"def456"}}`), nil
			}
			return nil, errors.New("unexpected method")
		},
	}

	store := newTestGitHubStore(t, mockClient)

	if err := store.Put(context.Background(), "ui/roster.csv", []byte("data"), "Update roster"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(putBody, &payload); err != nil {
		t.Fatalf("Failed to decode PUT body: %v", err)
	}
	if payload.SHA != "abc123" {
		t.Errorf("Expected existing SHA abc123 in payload, got %q", payload.SHA)
	}
}

func TestGitHubPutUploadFailure(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			if req.Method == http.MethodGet {
				return githubResponse(http.StatusNotFound, ``), nil
			}
			return githubResponse(http.StatusUnprocessableEntity, `{"message":"Invalid request"}`), nil
		},
	}

	store := newTestGitHubStore(t, mockClient)
	err := store.Put(context.Background(), "ui/roster.csv", []byte("data"), "msg")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "Invalid request") {
		t.Errorf("Expected body excerpt in error, got %q", apiErr.Body)
	}
}

func TestGitHubPutShaFetchFailureStopsUpload(t *testing.T) {
	var putCalled bool

	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			if req.Method == http.MethodPut {
				putCalled = true
			}
			return githubResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
		},
	}

	store := newTestGitHubStore(t, mockClient)
	err := store.Put(context.Background(), "ui/roster.csv", []byte("data"), "msg")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if putCalled {
		t.Error("Expected no PUT after failed SHA fetch")
	}
}

func TestGitHubCustomBranchAndBaseURL(t *testing.T) {
	var gotURL string

	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			if req.Method == http.MethodGet {
				gotURL = req.URL.String()
				return githubResponse(http.StatusNotFound, ``), nil
			}
			return githubResponse(http.StatusCreated, `{}`), nil
		},
	}

	store, err := NewGitHubStore(GitHubConfig{
		Token:      "t",
		Owner:      "o",
		Repo:       "r",
		Branch:     "data",
		BaseURL:    "https://github.example.com/api/v3/",
		HTTPClient: mockClient,
	})
	if err != nil {
		t.Fatalf("NewGitHubStore failed: %v", err)
	}

	if err := store.Put(context.Background(), "roster.csv", []byte("x"), "m"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	want := "https://github.example.com/api/v3/repos/o/r/contents/roster.csv?ref=data"
	if gotURL != want {
		t.Errorf("Expected %s, got %s", want, gotURL)
	}
}
