package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
	"keepsafe/internal/domain/services"
)

// defaultMimeType is stored when an upload carries no content type.
const defaultMimeType = "application/octet-stream"

type uploadService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobStore  repositories.BlobStore
	logger     *slog.Logger
}

// NewUploadService creates a new upload coordinator
func NewUploadService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobStore repositories.BlobStore,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobStore:  blobStore,
		logger:     logger,
	}
}

// UploadBatch processes items strictly in order. Each item gets a fresh
// storage key, its blob is written first, and only then is the record
// created; a failed item is recorded and its siblings continue. Directory
// paths are materialized through a batch-scoped resolver so each distinct
// prefix is looked up at most once.
func (s *uploadService) UploadBatch(ctx context.Context, destFolderID *string, items []services.UploadItem, progress services.ProgressFunc) (*services.UploadResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no files in upload batch", domain.ErrValidation)
	}

	if destFolderID != nil && *destFolderID == "" {
		destFolderID = nil
	}
	if destFolderID != nil {
		dest, err := s.folderRepo.GetByID(ctx, *destFolderID)
		if err != nil {
			return nil, fmt.Errorf("destination folder not found: %w", err)
		}
		if dest.IsDeleted {
			return nil, fmt.Errorf("%w: destination folder is in trash", domain.ErrValidation)
		}
	}

	resolver := newPathResolver(s.folderRepo, destFolderID)
	result := &services.UploadResult{
		Uploaded: make([]models.FileItem, 0, len(items)),
		Errors:   make([]services.UploadError, 0),
	}

	for i, item := range items {
		if progress != nil {
			progress(services.Progress{
				Current: i + 1,
				Total:   len(items),
				Name:    item.Filename,
			})
		}

		file, err := s.uploadOne(ctx, resolver, item)
		if err != nil {
			s.logger.Warn("upload item failed",
				"filename", item.Filename,
				"relative_path", item.RelativePath,
				"error", err,
			)
			result.Errors = append(result.Errors, services.UploadError{
				Filename: item.Filename,
				Error:    err.Error(),
			})
			continue
		}

		result.Uploaded = append(result.Uploaded, *file)
	}

	s.logger.Info("upload batch finished",
		"total", len(items),
		"uploaded", len(result.Uploaded),
		"failed", len(result.Errors),
	)

	return result, nil
}

func (s *uploadService) uploadOne(ctx context.Context, resolver *pathResolver, item services.UploadItem) (*models.FileItem, error) {
	if item.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}

	parentID, err := resolver.Resolve(ctx, item.RelativePath)
	if err != nil {
		return nil, err
	}

	contentType := item.ContentType
	if contentType == "" {
		contentType = defaultMimeType
	}

	now := time.Now()
	key := NewStorageKey(now, item.Filename)

	// Hash the payload as it streams to the blob store.
	hasher := sha256.New()
	if err := s.blobStore.Put(ctx, key, io.TeeReader(item.Content, hasher), item.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	file := &models.FileItem{
		Filename:       item.Filename,
		MimeType:       contentType,
		SizeBytes:      item.Size,
		StoragePath:    key,
		Checksum:       hex.EncodeToString(hasher.Sum(nil)),
		ParentFolderID: parentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Blob written but record failed: the blob is orphaned. No record
		// references it, so nothing user-visible leaks; reconciliation is
		// an offline concern.
		s.logger.Warn("file record failed after blob write, blob orphaned", "key", key, "error", err)
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}
