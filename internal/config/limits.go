package config

import "time"

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxRelativePathLength is the maximum length for the directory path an
	// upload item carries. Deeper hierarchies indicate an upload gone wrong.
	MaxRelativePathLength = 1000

	// MaxUploadFormMemory bounds multipart form parsing for upload batches.
	MaxUploadFormMemory = 100 << 20 // 100 MB

	// DefaultFolderColor is the display tag assigned when the caller does
	// not pick one.
	DefaultFolderColor = "#3b82f6"
)

const (
	// PreviewLinkTTL bounds inline preview URLs.
	PreviewLinkTTL = time.Hour

	// DownloadLinkTTL bounds attachment-disposition download URLs.
	DownloadLinkTTL = time.Hour

	// ShareLinkTTL bounds explicit "share link" URLs.
	ShareLinkTTL = 7 * 24 * time.Hour
)
