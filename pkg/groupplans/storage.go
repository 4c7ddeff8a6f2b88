package groupplans

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore defines the interface for storing plan cover images
type ImageStore interface {
	// Save stores an uploaded image and returns the name it was stored under
	Save(filename string, data io.Reader) (string, error)

	// Open retrieves a stored image
	Open(name string) (io.ReadCloser, error)
}

// FilesystemImageStore implements ImageStore on the local filesystem. Each
// upload is stored under a fresh UUID-prefixed name so uploads never collide
// or overwrite each other.
type FilesystemImageStore struct {
	baseDir string
}

// NewFilesystemImageStore creates a filesystem-backed image store rooted at
// baseDir, creating the directory if needed
func NewFilesystemImageStore(baseDir string) (*FilesystemImageStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FilesystemImageStore{baseDir: baseDir}, nil
}

// Save writes the image to disk under a UUID-prefixed name
func (s *FilesystemImageStore) Save(filename string, data io.Reader) (string, error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	f, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

// Open retrieves a stored image by name
func (s *FilesystemImageStore) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, sanitizeFilename(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

// sanitizeFilename strips path components so client-supplied names cannot
// escape the upload directory
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
