package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/priyamehta/cddrisk/internal/domain"
)

// FileStore writes uploaded documents to the configured directory as
// {customerID}_{docType}.{ext}.
type FileStore struct {
	dir string
}

// NewFileStore constructs a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the document bytes and returns the stored path.
func (f *FileStore) Save(customerID string, docType domain.DocumentType, originalName string, data []byte) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("%s_%s.%s", customerID, docType, ext)
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write document %s: %w", path, err)
	}
	return path, nil
}
