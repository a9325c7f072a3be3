package storage

import (
	"context"
	"fmt"
	"sync"
)

// MockUploader is an in-memory Uploader for tests.
type MockUploader struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
	Err     error
}

func NewMockUploader() *MockUploader {
	return &MockUploader{Files: make(map[string][]byte)}
}

func (m *MockUploader) UploadBytes(ctx context.Context, folder, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	key := folder + "/" + filename
	m.Files[key] = data
	return fmt.Sprintf("https://cdn.example.com/%s", key), nil
}

func (m *MockUploader) Delete(ctx context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, publicID)
	return nil
}
