package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskBlobStore writes attachments under a local root directory and serves
// them via a configured base URL.
type DiskBlobStore struct {
	root    string
	baseURL string
}

// NewDiskBlobStore creates the root directory if needed.
func NewDiskBlobStore(root, baseURL string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DiskBlobStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskBlobStore) Upload(_ context.Context, folder, filename string, data []byte, _ string) (string, error) {
	dir := filepath.Join(s.root, sanitize(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create attachment folder: %w", err)
	}
	// prefix with a short random id so repeated filenames never collide
	name := uuid.NewString()[:8] + "-" + sanitize(filename)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return s.baseURL + "/" + sanitize(folder) + "/" + name, nil
}

func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
