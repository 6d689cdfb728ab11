// Package publish ships cleaned rosters to shared storage behind one
// narrow interface, so the cleaning pipeline needs no knowledge of which
// backend a deployment uses.
package publish

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

// ContentStore puts a file's content at a path with a human-readable
// message describing the change. The GitHub store records the message as
// the commit message; the object store keeps it as metadata; the memory
// store logs it.
type ContentStore interface {
	Put(ctx context.Context, path string, content []byte, message string) error
}

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PublishFile reads a local file and puts its content at remotePath in
// the store.
func PublishFile(ctx context.Context, store ContentStore, localPath, remotePath, message string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	return store.Put(ctx, remotePath, content, message)
}
