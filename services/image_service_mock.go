package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/taskman-app/taskman-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedKeys []string
	deletedKeys  []string
	mu           sync.Mutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// UploadImage validates the file and records a mock storage key
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/mock_%s", keyPrefix, fileHeader.Filename)
	m.mu.Lock()
	m.uploadedKeys = append(m.uploadedKeys, key)
	m.mu.Unlock()
	return key, nil
}

// GetImageURL returns a deterministic mock URL for the key
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return "https://mock-images.example.com/" + imageKey, nil
}

// DeleteImage records the deletion
func (m *MockImageService) DeleteImage(imageKey string) error {
	m.mu.Lock()
	m.deletedKeys = append(m.deletedKeys, imageKey)
	m.mu.Unlock()
	return nil
}

// UploadedKeys returns the keys recorded by UploadImage (for assertions)
func (m *MockImageService) UploadedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.uploadedKeys))
	copy(keys, m.uploadedKeys)
	return keys
}

// DeletedKeys returns the keys recorded by DeleteImage (for assertions)
func (m *MockImageService) DeletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}
