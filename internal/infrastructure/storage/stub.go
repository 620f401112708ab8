// Package storage provides object storage implementations for certificate documents.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	trainingapp "github.com/formax/backend/internal/application/training"
)

// StubDocumentStore is an in-memory DocumentStore for development and tests.
// Documents are held in a map and download links are fake but stable.
type StubDocumentStore struct {
	// BaseURL is the base URL for generated download links.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubDocumentStore creates a new StubDocumentStore
func NewStubDocumentStore() *StubDocumentStore {
	return &StubDocumentStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubDocumentStore implements DocumentStore
var _ trainingapp.DocumentStore = (*StubDocumentStore)(nil)

// Put stores the document in memory
func (s *StubDocumentStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(body))
	copy(buf, body)
	s.objects[key] = buf
	return nil
}

// PresignGet returns a fake download URL for a stored document
func (s *StubDocumentStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", errors.New("object not found: " + key)
	}

	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// Delete removes a stored document
func (s *StubDocumentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns the stored document body. Test helper.
func (s *StubDocumentStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.objects[key]
	return body, ok
}
