package services

import (
	"context"

	"keepsafe/internal/domain/models"
)

// CreateFolderRequest creates a folder under ParentID (nil = root).
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// FolderContents is one level of the live (or trashed) tree view.
type FolderContents struct {
	Folder  *models.Folder    `json:"folder,omitempty"` // nil at root
	Folders []models.Folder   `json:"folders"`
	Files   []models.FileItem `json:"files"`
}

// FolderService manages folder creation and navigation.
type FolderService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	GetFolder(ctx context.Context, id string) (*models.Folder, error)

	// ListContents fetches one level of the tree: child folders ordered by
	// name ascending, files ordered newest first. Listings are always
	// re-fetched; nothing is cached between navigations.
	ListContents(ctx context.Context, parentID *string) (*FolderContents, error)

	// SetColor updates the display color tag.
	SetColor(ctx context.Context, id, color string) (*models.Folder, error)
}
