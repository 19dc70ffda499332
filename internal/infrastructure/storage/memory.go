package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	clearanceapp "github.com/friendserp/custom-clearance/internal/application/clearance"
)

var _ clearanceapp.ObjectStorageService = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in an in-process map. It backs the
// "memory" storage provider used for development and tests; presigned URLs
// point at a fake host and are never fetched in those environments.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// BaseURL is the host used when fabricating presigned URLs
	BaseURL string
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string][]byte),
		BaseURL: "https://storage.invalid",
	}
}

// GenerateUploadURL fabricates an upload URL and reserves the key
func (s *MemoryObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.Lock()
	if _, ok := s.objects[storageKey]; !ok {
		s.objects[storageKey] = nil
	}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL fabricates a download URL for a stored key
func (s *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject removes the object
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether the key has been reserved or written
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

// Put stores object data directly, primarily for tests
func (s *MemoryObjectStorage) Put(storageKey string, data []byte) {
	s.mu.Lock()
	s.objects[storageKey] = data
	s.mu.Unlock()
}

// Get returns object data stored via Put
func (s *MemoryObjectStorage) Get(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return data, ok
}
