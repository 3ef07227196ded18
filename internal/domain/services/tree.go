package services

import (
	"context"

	"keepsafe/internal/domain/models"
)

// TrashContents lists soft-deleted items, most recently deleted first.
type TrashContents struct {
	Folders []models.Folder   `json:"folders"`
	Files   []models.FileItem `json:"files"`
}

// TreeService performs structural mutations on the folder/file tree.
//
// Node lifecycle: LIVE -> TRASHED -> LIVE (restore) or TRASHED -> PURGED
// (terminal). Purging a LIVE node is a validation error.
type TreeService interface {
	// SoftDeleteFolder marks the folder and every descendant folder and
	// file as trashed, atomically with respect to concurrent listings.
	SoftDeleteFolder(ctx context.Context, folderID string) error

	// RestoreFolder clears the trashed state on the folder and every
	// descendant, atomically.
	RestoreFolder(ctx context.Context, folderID string) error

	// PurgeFolder permanently removes a trashed folder: it enumerates every
	// nested file's storage key, removes the blobs in one call, then deletes
	// the folder row (the store cascades descendant rows). Blob removal
	// failure aborts the purge before any record is deleted.
	PurgeFolder(ctx context.Context, folderID string) error

	SoftDeleteFile(ctx context.Context, fileID string) error
	RestoreFile(ctx context.Context, fileID string) error

	// PurgeFile permanently removes a trashed file: blob first, record
	// second.
	PurgeFile(ctx context.Context, fileID string) error

	// ListTrash lists all trashed folders and files.
	ListTrash(ctx context.Context) (*TrashContents, error)
}
