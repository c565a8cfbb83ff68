package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore persists binary image payloads and hands back public URLs.
type ImageStore interface {
	Save(subdir string, data []byte, mimeType string) (string, error)
}

// LocalStore writes under a local directory that the server exposes at
// /uploads. Swapping in an object store later only needs this interface.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &LocalStore{
		baseDir: baseDir,
		baseURL: baseURL,
	}
}

func (s *LocalStore) Save(subdir string, data []byte, mimeType string) (string, error) {
	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	// Random names: sequential outputs of one request must never collide.
	filename := uuid.New().String() + ExtensionFor(mimeType)
	dstPath := filepath.Join(dir, filename)

	if err := os.WriteFile(dstPath, data, 0644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, subdir, filename), nil
}

// ExtensionFor maps a MIME type to a file extension, defaulting to .png.
func ExtensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
