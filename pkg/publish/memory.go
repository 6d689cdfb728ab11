package publish

import (
	"context"
	"sync"
)

// MemoryStore keeps published files in memory. It backs tests and the
// publish command's dry-run mode.
type MemoryStore struct {
	mu       sync.RWMutex
	files    map[string][]byte
	messages []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Put stores a copy of content at path and logs the message.
func (s *MemoryStore) Put(_ context.Context, path string, content []byte, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(content))
	copy(stored, content)
	s.files[path] = stored
	s.messages = append(s.messages, message)
	return nil
}

// Get returns the content stored at path.
func (s *MemoryStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[path]
	return content, ok
}

// Messages returns the put messages in publish order.
func (s *MemoryStore) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of stored files.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
