package models

import (
	"time"
)

// FolderShare is a persistent per-email access grant on a folder.
// At most one active grant exists per (folder, email) pair.
type FolderShare struct {
	ID          string    `json:"id" db:"id"`
	FolderID    string    `json:"folder_id" db:"folder_id"`
	SharedEmail string    `json:"shared_email" db:"shared_email"`
	GrantedAt   time.Time `json:"granted_at" db:"granted_at"`
}
