package repositories

import (
	"context"

	"keepsafe/internal/domain/models"
)

// ShareRepository is the relational-store surface for folder ACL grants.
type ShareRepository interface {
	// Grant inserts an ACL row. A second grant for the same
	// (folder, email) pair fails with domain.ErrConflict; it never creates
	// a second row.
	Grant(ctx context.Context, share *models.FolderShare) error

	// ListByFolder lists active grants on a folder, oldest first.
	ListByFolder(ctx context.Context, folderID string) ([]models.FolderShare, error)
}
