package vault

import (
	"context"
	"fmt"
	"log/slog"

	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
	"keepsafe/internal/domain/services"
)

type treeService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	blobStore  repositories.BlobStore
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewTreeService creates a new tree mutation service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobStore repositories.BlobStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobStore:  blobStore,
		txManager:  txManager,
		logger:     logger,
	}
}

// collectSubtree walks the folder tree breadth-first from rootID and returns
// every folder ID in the subtree, root included. The walk ignores deleted
// flags so a cascade covers items trashed individually before their parent.
func collectSubtree(ctx context.Context, folderRepo repositories.FolderRepository, rootID string) ([]string, error) {
	ids := []string{rootID}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		next := make([]string, 0)
		for _, id := range frontier {
			children, err := folderRepo.ListChildIDs(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to walk subtree at %s: %w", id, err)
			}
			next = append(next, children...)
		}
		ids = append(ids, next...)
		frontier = next
	}

	return ids, nil
}

// setSubtreeDeleted flips the deleted flag on a folder subtree and all files
// inside it, within a single transaction so concurrent listings never see a
// half-cascaded tree.
func (s *treeService) setSubtreeDeleted(ctx context.Context, folderID string, deleted bool) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.IsDeleted == deleted {
		// Idempotent: trashing a trashed folder (or restoring a live one)
		// is a no-op.
		return nil
	}

	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		subtree, err := collectSubtree(ctx, s.folderRepo, folderID)
		if err != nil {
			return err
		}

		if err := s.folderRepo.SetDeletedBatch(ctx, subtree, deleted); err != nil {
			return fmt.Errorf("failed to update folders: %w", err)
		}
		if err := s.fileRepo.SetDeletedByFolders(ctx, subtree, deleted); err != nil {
			return fmt.Errorf("failed to update files: %w", err)
		}

		s.logger.Info("folder subtree updated",
			"folder_id", folderID,
			"deleted", deleted,
			"folder_count", len(subtree),
		)
		return nil
	})
}

// SoftDeleteFolder moves the folder and everything under it to trash.
func (s *treeService) SoftDeleteFolder(ctx context.Context, folderID string) error {
	return s.setSubtreeDeleted(ctx, folderID, true)
}

// RestoreFolder brings the folder and everything under it back from trash.
func (s *treeService) RestoreFolder(ctx context.Context, folderID string) error {
	return s.setSubtreeDeleted(ctx, folderID, false)
}

// PurgeFolder permanently removes a trashed folder. Blob removal happens
// before record deletion: if the object store rejects the removal the
// records stay, so a retry can find the keys again. The reverse order would
// orphan blobs with no record pointing at them.
func (s *treeService) PurgeFolder(ctx context.Context, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if !folder.IsDeleted {
		return fmt.Errorf("%w: folder must be in trash before permanent deletion", domain.ErrValidation)
	}

	subtree, err := collectSubtree(ctx, s.folderRepo, folderID)
	if err != nil {
		return err
	}

	files, err := s.fileRepo.ListByFolders(ctx, subtree)
	if err != nil {
		return fmt.Errorf("failed to enumerate files for purge: %w", err)
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.StoragePath)
	}

	if len(keys) > 0 {
		if err := s.blobStore.Remove(ctx, keys); err != nil {
			return fmt.Errorf("failed to remove blobs: %w", err)
		}
	}

	// The store cascades the row deletion to descendant folders and files.
	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder purged",
		"folder_id", folderID,
		"folder_count", len(subtree),
		"file_count", len(files),
	)
	return nil
}

// SoftDeleteFile moves a single file to trash.
func (s *treeService) SoftDeleteFile(ctx context.Context, fileID string) error {
	if _, err := s.fileRepo.GetByID(ctx, fileID); err != nil {
		return err
	}
	if err := s.fileRepo.SetDeleted(ctx, fileID, true); err != nil {
		return err
	}
	s.logger.Info("file trashed", "file_id", fileID)
	return nil
}

// RestoreFile brings a single file back from trash. The file reappears in
// its original parent folder even when that folder is itself trashed.
func (s *treeService) RestoreFile(ctx context.Context, fileID string) error {
	if _, err := s.fileRepo.GetByID(ctx, fileID); err != nil {
		return err
	}
	if err := s.fileRepo.SetDeleted(ctx, fileID, false); err != nil {
		return err
	}
	s.logger.Info("file restored", "file_id", fileID)
	return nil
}

// PurgeFile permanently removes a trashed file, blob first.
func (s *treeService) PurgeFile(ctx context.Context, fileID string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !file.IsDeleted {
		return fmt.Errorf("%w: file must be in trash before permanent deletion", domain.ErrValidation)
	}

	if err := s.blobStore.Remove(ctx, []string{file.StoragePath}); err != nil {
		return fmt.Errorf("failed to remove blob: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info("file purged", "file_id", fileID, "storage_path", file.StoragePath)
	return nil
}

// ListTrash lists all trashed folders and files, most recently deleted
// first.
func (s *treeService) ListTrash(ctx context.Context) (*services.TrashContents, error) {
	folders, err := s.folderRepo.ListTrashed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed folders: %w", err)
	}

	files, err := s.fileRepo.ListTrashed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed files: %w", err)
	}

	if folders == nil {
		folders = []models.Folder{}
	}
	if files == nil {
		files = []models.FileItem{}
	}

	return &services.TrashContents{
		Folders: folders,
		Files:   files,
	}, nil
}
