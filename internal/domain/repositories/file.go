package repositories

import (
	"context"

	"keepsafe/internal/domain/models"
)

// FileRepository is the relational-store surface for file rows.
type FileRepository interface {
	// Create inserts a new file record.
	Create(ctx context.Context, file *models.FileItem) error

	// GetByID retrieves a file regardless of deleted state.
	GetByID(ctx context.Context, id string) (*models.FileItem, error)

	// ListByParent lists files directly inside parentID (nil = root) with
	// the given deleted state, newest first.
	ListByParent(ctx context.Context, parentID *string, deleted bool) ([]models.FileItem, error)

	// ListTrashed lists every trashed file, most recently deleted first.
	ListTrashed(ctx context.Context) ([]models.FileItem, error)

	// ListByFolders returns all files whose parent folder is in folderIDs,
	// regardless of deleted state. Used to enumerate storage keys before a
	// permanent purge.
	ListByFolders(ctx context.Context, folderIDs []string) ([]models.FileItem, error)

	// SetDeleted flips the deleted flag on a single record.
	SetDeleted(ctx context.Context, id string, deleted bool) error

	// SetDeletedBatch flips the deleted flag on every file in ids with a
	// single statement.
	SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error

	// SetDeletedByFolders flips the deleted flag on every file whose parent
	// folder is in folderIDs.
	SetDeletedByFolders(ctx context.Context, folderIDs []string, deleted bool) error

	// Delete removes the file record permanently.
	Delete(ctx context.Context, id string) error

	// DeleteBatch removes file records permanently by id list.
	DeleteBatch(ctx context.Context, ids []string) error
}
