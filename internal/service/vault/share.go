package vault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"keepsafe/internal/config"
	"keepsafe/internal/domain"
	"keepsafe/internal/domain/models"
	"keepsafe/internal/domain/repositories"
	"keepsafe/internal/domain/services"
)

type shareService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	shareRepo  repositories.ShareRepository
	blobStore  repositories.BlobStore
	logger     *slog.Logger
}

// NewShareService creates a new sharing manager
func NewShareService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	shareRepo repositories.ShareRepository,
	blobStore repositories.BlobStore,
	logger *slog.Logger,
) services.ShareService {
	return &shareService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		shareRepo:  shareRepo,
		blobStore:  blobStore,
		logger:     logger,
	}
}

func (s *shareService) signedLink(ctx context.Context, fileID string, ttl time.Duration, disposition repositories.Disposition) (*services.SignedLink, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsDeleted {
		return nil, fmt.Errorf("%w: file is in trash", domain.ErrNotFound)
	}

	url, err := s.blobStore.SignedURL(ctx, file.StoragePath, ttl, disposition, file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to sign URL: %w", err)
	}

	return &services.SignedLink{
		URL:       url,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// PreviewLink returns a short-lived inline URL for rendering the file in
// the browser.
func (s *shareService) PreviewLink(ctx context.Context, fileID string) (*services.SignedLink, error) {
	return s.signedLink(ctx, fileID, config.PreviewLinkTTL, repositories.DispositionInline)
}

// DownloadLink returns a short-lived attachment URL.
func (s *shareService) DownloadLink(ctx context.Context, fileID string) (*services.SignedLink, error) {
	return s.signedLink(ctx, fileID, config.DownloadLinkTTL, repositories.DispositionAttachment)
}

// ShareLink returns a long-lived inline URL meant for handing out. The URL
// is a bearer capability: it works for anyone and cannot be revoked before
// expiry.
func (s *shareService) ShareLink(ctx context.Context, fileID string) (*services.SignedLink, error) {
	link, err := s.signedLink(ctx, fileID, config.ShareLinkTTL, repositories.DispositionInline)
	if err != nil {
		return nil, err
	}
	s.logger.Info("share link issued", "file_id", fileID, "expires_in", link.ExpiresIn)
	return link, nil
}

// ShareFolder grants email access to a folder. Duplicate grants for the
// same (folder, email) pair are conflicts, never upserts.
func (s *shareService) ShareFolder(ctx context.Context, folderID, email string) (*models.FolderShare, error) {
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsDeleted {
		return nil, fmt.Errorf("%w: folder is in trash", domain.ErrValidation)
	}

	share := &models.FolderShare{
		FolderID:    folderID,
		SharedEmail: email,
		GrantedAt:   time.Now(),
	}

	if err := s.shareRepo.Grant(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("folder shared", "folder_id", folderID, "email", email)

	return share, nil
}

// ListShares lists the active grants on a folder.
func (s *shareService) ListShares(ctx context.Context, folderID string) ([]models.FolderShare, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID); err != nil {
		return nil, err
	}

	shares, err := s.shareRepo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if shares == nil {
		shares = []models.FolderShare{}
	}
	return shares, nil
}
