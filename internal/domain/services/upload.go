package services

import (
	"context"
	"io"

	"keepsafe/internal/domain/models"
)

// UploadItem is one file payload plus the vault-relative directory path it
// belongs under ("" = directly in the destination folder).
type UploadItem struct {
	Filename     string
	RelativePath string // slash-separated directory path, no filename
	ContentType  string
	Size         int64
	Content      io.Reader
}

// Progress is reported as each item begins, never mid-item. Current is
// 1-based so a progress bar advances monotonically to Total.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Name    string `json:"name"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(Progress)

// UploadError records a single failed item; siblings are unaffected.
type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// UploadResult summarizes a batch.
type UploadResult struct {
	Uploaded []models.FileItem `json:"uploaded"`
	Errors   []UploadError     `json:"errors"`
}

// UploadService sequences a batch of uploads into a destination folder,
// materializing relative directory paths as it goes. Items are processed
// strictly in order; one item's failure does not abort its siblings.
type UploadService interface {
	UploadBatch(ctx context.Context, destFolderID *string, items []UploadItem, progress ProgressFunc) (*UploadResult, error)
}
