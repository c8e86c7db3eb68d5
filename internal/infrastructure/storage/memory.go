package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	b2bapp "github.com/ServiLut/tote-bag/internal/application/b2b"
)

var _ b2bapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps uploads in process memory. It is used when no
// storage credentials are configured, so local runs can accept logos.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryObjectStorage creates a MemoryObjectStorage serving URLs under
// baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Upload stores a copy of data and returns its URL
func (s *MemoryObjectStorage) Upload(_ context.Context, bucket, key string, data []byte, _ string) (string, error) {
	if bucket == "" || key == "" {
		return "", errors.New("storage bucket and key are required")
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.objects[bucket+"/"+key] = cp
	s.mu.Unlock()
	return s.BaseURL + "/" + bucket + "/" + key, nil
}

// Object returns a stored object
func (s *MemoryObjectStorage) Object(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[bucket+"/"+key]
	return b, ok
}
