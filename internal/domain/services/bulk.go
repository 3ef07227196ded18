package services

import (
	"context"
)

// Selection is a heterogeneous set of items for a bulk operation.
type Selection struct {
	FolderIDs []string `json:"folder_ids"`
	FileIDs   []string `json:"file_ids"`
}

// IsEmpty reports whether the selection names no items.
func (s Selection) IsEmpty() bool {
	return len(s.FolderIDs) == 0 && len(s.FileIDs) == 0
}

// FileLink pairs a file with a short-lived download URL.
type FileLink struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// BulkService applies tree mutations across mixed selections as best-effort
// batches: the first error aborts the remaining steps, but effects already
// committed stay committed. All-or-nothing is explicitly not a contract.
type BulkService interface {
	// TrashSelection soft-deletes the whole selection. Files are flipped in
	// one batched update, then each folder is cascaded.
	TrashSelection(ctx context.Context, sel Selection) error

	// PurgeSelection permanently deletes a trashed selection: the union of
	// folder-nested storage keys and directly-selected file keys is removed
	// from the blob store in one call, then folder and file rows are
	// deleted in batched statements. Every item must already be trashed.
	PurgeSelection(ctx context.Context, sel Selection) error

	// DownloadLinks issues one time-limited attachment link per selected
	// file. Selections containing folders are rejected: archiving folder
	// contents is unsupported.
	DownloadLinks(ctx context.Context, sel Selection) ([]FileLink, error)

	// ShareSelection always reports a capability limitation; bulk folder
	// ACL sharing is unsupported.
	ShareSelection(ctx context.Context, sel Selection) error
}
