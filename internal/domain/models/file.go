package models

import (
	"time"
)

// FileItem is a stored file record. The blob itself lives in the object
// store under StoragePath; the record only carries metadata.
type FileItem struct {
	ID             string     `json:"id" db:"id"`
	Filename       string     `json:"filename" db:"filename"`
	MimeType       string     `json:"mime_type" db:"mime_type"`
	SizeBytes      int64      `json:"size" db:"size_bytes"`
	StoragePath    string     `json:"storage_path" db:"storage_path"` // opaque blob key, never user-editable
	Checksum       string     `json:"checksum,omitempty" db:"checksum"`
	ParentFolderID *string    `json:"parent_folder_id" db:"parent_folder_id"` // NULL = root level
	IsDeleted      bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
