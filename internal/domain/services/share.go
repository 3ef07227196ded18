package services

import (
	"context"

	"keepsafe/internal/domain/models"
)

// SignedLink is a time-bounded capability URL for a file blob. Anyone
// holding the URL has access until expiry; it cannot be revoked early.
type SignedLink struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// ShareService issues signed URLs for files and persistent email grants for
// folders.
type ShareService interface {
	// PreviewLink returns a short-lived inline-disposition URL.
	PreviewLink(ctx context.Context, fileID string) (*SignedLink, error)

	// DownloadLink returns a short-lived attachment-disposition URL.
	DownloadLink(ctx context.Context, fileID string) (*SignedLink, error)

	// ShareLink returns a long-lived inline URL meant for handing out.
	ShareLink(ctx context.Context, fileID string) (*SignedLink, error)

	// ShareFolder grants email access to a folder. A duplicate grant for
	// the same (folder, email) pair is a conflict, not an upsert.
	ShareFolder(ctx context.Context, folderID, email string) (*models.FolderShare, error)

	// ListShares lists the active grants on a folder.
	ListShares(ctx context.Context, folderID string) ([]models.FolderShare, error)
}
