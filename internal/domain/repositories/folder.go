package repositories

import (
	"context"

	"keepsafe/internal/domain/models"
)

// FolderRepository is the relational-store surface for folder rows.
//
// Deleted-flag filtering: listing methods take a deleted flag selecting
// either the live view (false) or the trashed view (true). Tree walks use
// ListChildIDs, which ignores the flag entirely.
type FolderRepository interface {
	// Create inserts a new folder row. Sibling name duplicates are allowed;
	// there is no uniqueness constraint on (parent_id, name).
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder regardless of deleted state.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// FindByNameAndParent returns the first live folder with the given name
	// under parentID (nil = root), or nil if none exists.
	FindByNameAndParent(ctx context.Context, name string, parentID *string) (*models.Folder, error)

	// ListChildren lists immediate children with the given deleted state,
	// ordered by name ascending.
	ListChildren(ctx context.Context, parentID *string, deleted bool) ([]models.Folder, error)

	// ListTrashed lists every trashed folder, most recently deleted first.
	ListTrashed(ctx context.Context) ([]models.Folder, error)

	// ListChildIDs returns the IDs of all immediate children regardless of
	// deleted state. Used by cascading tree walks.
	ListChildIDs(ctx context.Context, parentID string) ([]string, error)

	// UpdateColor sets the display color tag.
	UpdateColor(ctx context.Context, id, color string) error

	// SetDeletedBatch flips the deleted flag (and deleted_at) on every
	// folder in ids with a single statement.
	SetDeletedBatch(ctx context.Context, ids []string, deleted bool) error

	// Delete removes the folder row permanently. The store cascades the row
	// deletion to descendant folder and file rows.
	Delete(ctx context.Context, id string) error

	// DeleteBatch removes folder rows permanently by id list.
	DeleteBatch(ctx context.Context, ids []string) error
}
