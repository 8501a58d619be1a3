package blob

import "context"

// BlobStore persists uploaded files and returns their public URLs. Upload
// failures are non-fatal to ticket operations.
type BlobStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte, mimeType string) (string, error)
}
