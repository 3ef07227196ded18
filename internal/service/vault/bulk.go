package vault

import (
	"context"
	"fmt"
	"log/slog"

	"keepsafe/internal/config"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/repositories"
	"keepsafe/internal/domain/services"
)

type bulkService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobStore  repositories.BlobStore
	tree       services.TreeService
	logger     *slog.Logger
}

// NewBulkService creates a new bulk operation coordinator
func NewBulkService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobStore repositories.BlobStore,
	tree services.TreeService,
	logger *slog.Logger,
) services.BulkService {
	return &bulkService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobStore:  blobStore,
		tree:       tree,
		logger:     logger,
	}
}

// TrashSelection soft-deletes a mixed selection. Files first in one batched
// update, then each folder cascade in turn. The first error stops the
// remaining steps; steps already committed stay committed.
func (s *bulkService) TrashSelection(ctx context.Context, sel services.Selection) error {
	if sel.IsEmpty() {
		return fmt.Errorf("%w: empty selection", domain.ErrValidation)
	}

	if len(sel.FileIDs) > 0 {
		if err := s.fileRepo.SetDeletedBatch(ctx, sel.FileIDs, true); err != nil {
			return fmt.Errorf("failed to trash files: %w", err)
		}
	}

	for _, folderID := range sel.FolderIDs {
		if err := s.tree.SoftDeleteFolder(ctx, folderID); err != nil {
			return fmt.Errorf("failed to trash folder %s: %w", folderID, err)
		}
	}

	s.logger.Info("selection trashed",
		"folder_count", len(sel.FolderIDs),
		"file_count", len(sel.FileIDs),
	)
	return nil
}

// PurgeSelection permanently deletes a trashed selection. The union of every
// nested and directly-selected storage key goes to the blob store in one
// removal call; record deletion follows only if that call succeeds.
func (s *bulkService) PurgeSelection(ctx context.Context, sel services.Selection) error {
	if sel.IsEmpty() {
		return fmt.Errorf("%w: empty selection", domain.ErrValidation)
	}

	keys := make([]string, 0)
	allFolders := make([]string, 0)

	for _, folderID := range sel.FolderIDs {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		if !folder.IsDeleted {
			return fmt.Errorf("%w: folder %s must be in trash before permanent deletion", domain.ErrValidation, folderID)
		}

		subtree, err := collectSubtree(ctx, s.folderRepo, folderID)
		if err != nil {
			return err
		}
		allFolders = append(allFolders, subtree...)
	}

	if len(allFolders) > 0 {
		files, err := s.fileRepo.ListByFolders(ctx, allFolders)
		if err != nil {
			return fmt.Errorf("failed to enumerate files for purge: %w", err)
		}
		for _, f := range files {
			keys = append(keys, f.StoragePath)
		}
	}

	for _, fileID := range sel.FileIDs {
		file, err := s.fileRepo.GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		if !file.IsDeleted {
			return fmt.Errorf("%w: file %s must be in trash before permanent deletion", domain.ErrValidation, fileID)
		}
		keys = append(keys, file.StoragePath)
	}

	if len(keys) > 0 {
		if err := s.blobStore.Remove(ctx, keys); err != nil {
			return fmt.Errorf("failed to remove blobs: %w", err)
		}
	}

	if len(sel.FolderIDs) > 0 {
		if err := s.folderRepo.DeleteBatch(ctx, sel.FolderIDs); err != nil {
			return fmt.Errorf("failed to delete folders: %w", err)
		}
	}
	if len(sel.FileIDs) > 0 {
		if err := s.fileRepo.DeleteBatch(ctx, sel.FileIDs); err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	s.logger.Info("selection purged",
		"folder_count", len(sel.FolderIDs),
		"file_count", len(sel.FileIDs),
		"blob_count", len(keys),
	)
	return nil
}

// DownloadLinks issues one attachment URL per selected file. Folders are
// rejected outright: there is no archive step, so a folder has no single
// downloadable representation.
func (s *bulkService) DownloadLinks(ctx context.Context, sel services.Selection) ([]services.FileLink, error) {
	if len(sel.FolderIDs) > 0 {
		return nil, fmt.Errorf("%w: folders cannot be downloaded, select files only", domain.ErrUnsupported)
	}
	if len(sel.FileIDs) == 0 {
		return nil, fmt.Errorf("%w: empty selection", domain.ErrValidation)
	}

	links := make([]services.FileLink, 0, len(sel.FileIDs))
	for _, fileID := range sel.FileIDs {
		file, err := s.fileRepo.GetByID(ctx, fileID)
		if err != nil {
			return nil, err
		}

		url, err := s.blobStore.SignedURL(ctx, file.StoragePath, config.DownloadLinkTTL, repositories.DispositionAttachment, file.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to sign URL for %s: %w", fileID, err)
		}

		links = append(links, services.FileLink{
			FileID:   fileID,
			Filename: file.Filename,
			URL:      url,
		})
	}

	return links, nil
}

// ShareSelection is not supported: folder ACL grants are issued one folder
// at a time through the sharing manager.
func (s *bulkService) ShareSelection(ctx context.Context, sel services.Selection) error {
	return fmt.Errorf("%w: bulk sharing is not available, share folders individually", domain.ErrUnsupported)
}

