package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UploadStorage keeps uploaded workbooks on the local filesystem under a
// single base directory, with unique names to prevent collisions.
type UploadStorage struct {
	basePath string
}

// NewUploadStorage creates storage rooted at basePath.
func NewUploadStorage(basePath string) *UploadStorage {
	return &UploadStorage{basePath: basePath}
}

// BasePath returns the storage root.
func (s *UploadStorage) BasePath() string {
	return s.basePath
}

// Store saves an uploaded file under a timestamp+uuid suffixed name and
// returns the stored path.
func (s *UploadStorage) Store(ctx context.Context, file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	ext := filepath.Ext(filename)
	baseName := filename[:len(filename)-len(ext)]
	timestamp := time.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s%s", baseName, timestamp, uuid.New().String()[:8], ext)

	filePath := filepath.Join(s.basePath, uniqueName)
	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}

	return filePath, nil
}

// Clear removes every stored upload. Missing directories are fine.
func (s *UploadStorage) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list storage directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}
