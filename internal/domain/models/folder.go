package models

import (
	"time"
)

// Folder is a node of the vault tree. Children reference their parent by ID
// only; descendant enumeration is a storage query, never an in-memory walk
// over owned child collections.
type Folder struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Color     string     `json:"color" db:"color"`
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
