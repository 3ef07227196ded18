package repositories

import (
	"context"
	"io"
	"time"
)

// Disposition selects how a signed URL instructs the browser to handle the
// blob: render it in place or download it.
type Disposition string

const (
	DispositionInline     Disposition = "inline"
	DispositionAttachment Disposition = "attachment"
)

// BlobStore is the durable object-store surface. Keys are opaque,
// system-generated storage paths.
type BlobStore interface {
	// Put writes a blob under key. Keys are never overwritten; the upload
	// coordinator guarantees uniqueness via its key scheme.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Remove deletes every key in one batched call. Missing keys are not an
	// error.
	Remove(ctx context.Context, keys []string) error

	// SignedURL returns a time-bounded capability URL for key. The filename
	// is advisory and only used for the attachment disposition.
	SignedURL(ctx context.Context, key string, ttl time.Duration, disposition Disposition, filename string) (string, error)
}
